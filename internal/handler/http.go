package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"avatarShop/internal/domain"
	"avatarShop/internal/handler/mw"
	"avatarShop/internal/session"
	"avatarShop/internal/usecase"
)

type Handler struct {
	service   *usecase.Service
	sessions  session.Store
	auth      *mw.Authenticator
	staticDir string
}

func NewHandler(service *usecase.Service, sessions session.Store, auth *mw.Authenticator, staticDir string) *Handler {
	return &Handler{service: service, sessions: sessions, auth: auth, staticDir: staticDir}
}

func (h *Handler) Register(r chi.Router) {
	// entry pages: logged-in users get bounced to the app
	r.Group(func(r chi.Router) {
		r.Use(h.auth.RedirectAuthenticated)
		r.Get("/login", h.page("login.html"))
		r.Get("/signup", h.page("signup.html"))
	})
	r.Post("/login", h.login)
	r.Post("/signup", h.signup)
	r.Get("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequirePage)
		r.Get("/shop", h.page("shop.html"))
		r.Get("/minigame", h.page("minigame.html"))
		r.Get("/users", h.page("users.html"))
	})

	r.Group(func(r chi.Router) {
		r.Use(h.auth.RequireAPI)
		r.Get("/api/getUser", h.getUser)
		r.Get("/api/getUsers", h.getUsers)
		r.Get("/api/getItems", h.getItems)
		r.Get("/api/question", h.question)
		r.Post("/api/buyItem", h.buyItem)
		r.Post("/api/equipItem", h.equipItem)
		r.Post("/api/winGold", h.winGold)
	})

	for _, dir := range []string{"css", "js", "images"} {
		prefix := "/" + dir + "/"
		fs := http.StripPrefix(prefix, http.FileServer(http.Dir(filepath.Join(h.staticDir, dir))))
		r.Handle(prefix+"*", fs)
	}

	r.NotFound(h.catchAll)
}

func (h *Handler) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(h.staticDir, name))
	}
}

// catchAll mirrors the entry-point logic for every unmatched path:
// anonymous visitors go to login, everyone else to the roster.
func (h *Handler) catchAll(w http.ResponseWriter, r *http.Request) {
	if s, _ := h.auth.Resolve(r); s == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// readCredentials accepts the JSON the bundled pages send and plain
// form posts for clients without javascript.
func readCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(r.Body).Decode(&c)
		return c, err
	}
	if err := r.ParseForm(); err != nil {
		return c, err
	}
	c.Username = r.PostFormValue("username")
	c.Password = r.PostFormValue("password")
	return c, nil
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	userID, err := h.service.Register(r.Context(), c.Username, c.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if err := h.startSession(w, r, userID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, map[string]string{"message": "user created"})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	userID, err := h.service.Login(r.Context(), c.Username, c.Password)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if err := h.startSession(w, r, userID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "login successful"})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, userID int) error {
	token, err := h.sessions.Create(r.Context(), session.Session{UserID: userID})
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     mw.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(mw.CookieName); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			slog.Error("destroying session", "err", err)
			writeError(w, http.StatusInternalServerError, "unable to log out")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{Name: mw.CookieName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Profile(r.Context(), mw.MustGetUserID(r.Context()))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, profile)
}

func (h *Handler) getUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]any{"users": users})
}

func (h *Handler) getItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Catalog(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]any{"items": items})
}

type itemRequest struct {
	ItemID int `json:"itemId"`
}

func (h *Handler) buyItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := h.service.Purchase(r.Context(), mw.MustGetUserID(r.Context()), req.ItemID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "item purchased"})
}

func (h *Handler) equipItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := h.service.Equip(r.Context(), mw.MustGetUserID(r.Context()), req.ItemID); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]string{"message": "item equipped"})
}

// question hands out a fresh arithmetic challenge and parks the answer
// in the session, where winGold will look for it.
func (h *Handler) question(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := mw.SessionToken(ctx)
	s, err := h.sessions.Get(ctx, token)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if s == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	ch := usecase.NewChallenge()
	s.Answer = &ch.Answer
	if err := h.sessions.Update(ctx, token, *s); err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]string{"question": ch.Question})
}

type answerRequest struct {
	Answer int `json:"answer"`
}

func (h *Handler) winGold(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	ctx := r.Context()
	token := mw.SessionToken(ctx)
	s, err := h.sessions.Get(ctx, token)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if s == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if s.Answer == nil {
		h.writeDomainError(w, domain.ErrNoChallenge)
		return
	}

	// one attempt per question, right or wrong
	expected := *s.Answer
	s.Answer = nil
	if err := h.sessions.Update(ctx, token, *s); err != nil {
		h.writeDomainError(w, err)
		return
	}
	if req.Answer != expected {
		h.writeDomainError(w, domain.ErrWrongAnswer)
		return
	}

	gold, err := h.service.WinGold(ctx, mw.MustGetUserID(ctx))
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]any{"message": "gold added", "gold": gold})
}

// writeDomainError maps taxonomy errors to their status; anything
// unexpected is logged and hidden behind a generic 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingCredentials),
		errors.Is(err, domain.ErrInsufficientGold),
		errors.Is(err, domain.ErrNoChallenge),
		errors.Is(err, domain.ErrWrongAnswer):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrItemNotOwned):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrItemAlreadyOwned):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("internal error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, map[string]string{"error": msg})
}
