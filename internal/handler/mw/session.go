package mw

import (
	"context"
	"net/http"

	"avatarShop/internal/session"
)

// CookieName carries the opaque session token. The token means nothing
// on its own; the store resolves it to a user.
const CookieName = "avatar_session"

type ctxKeyType int

const (
	userCtxKey ctxKeyType = iota
	tokenCtxKey
)

type Authenticator struct {
	store session.Store
}

func NewAuthenticator(store session.Store) *Authenticator {
	return &Authenticator{store: store}
}

// Resolve returns the request's session and token, or (nil, "") when
// the cookie is absent or no longer maps to a live session.
func (a *Authenticator) Resolve(r *http.Request) (*session.Session, string) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ""
	}
	s, err := a.store.Get(r.Context(), cookie.Value)
	if err != nil || s == nil {
		return nil, ""
	}
	return s, cookie.Value
}

func withSession(r *http.Request, s *session.Session, token string) *http.Request {
	ctx := context.WithValue(r.Context(), userCtxKey, s.UserID)
	ctx = context.WithValue(ctx, tokenCtxKey, token)
	return r.WithContext(ctx)
}

// RequireAPI gates JSON routes; unauthenticated callers get a 401
// envelope instead of the redirect the page routes use.
func (a *Authenticator) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, token := a.Resolve(r)
		if s == nil {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, withSession(r, s, token))
	})
}

// RequirePage gates browser page routes, sending anonymous visitors to
// the login page.
func (a *Authenticator) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, token := a.Resolve(r)
		if s == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, withSession(r, s, token))
	})
}

// RedirectAuthenticated sends already logged-in users away from the
// login and signup pages.
func (a *Authenticator) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, _ := a.Resolve(r); s != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func MustGetUserID(ctx context.Context) int {
	val := ctx.Value(userCtxKey)
	if val == nil {
		return 0
	}
	return val.(int)
}

// SessionToken returns the token the current request authenticated
// with, empty outside guarded routes.
func SessionToken(ctx context.Context) string {
	val := ctx.Value(tokenCtxKey)
	if val == nil {
		return ""
	}
	return val.(string)
}
