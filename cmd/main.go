package main

import (
	"log"
	"net/http"

	"avatarShop/internal/config"
	"avatarShop/internal/handler"
	"avatarShop/internal/handler/mw"
	"avatarShop/internal/logging"
	"avatarShop/internal/repository"
	"avatarShop/internal/server"
	"avatarShop/internal/session"
	"avatarShop/internal/usecase"
)

func main() {
	logging.Init()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	repo, err := repository.NewPostgresRepo(cfg.DSN())
	if err != nil {
		log.Fatalf("failed to init repository: %v", err)
	}

	var sessions session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		sessions, err = session.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
	default:
		sessions = session.NewMemoryStore()
	}

	svc := usecase.NewService(repo)
	auth := mw.NewAuthenticator(sessions)
	h := handler.NewHandler(svc, sessions, auth, cfg.StaticDir)
	r := server.NewRouter(h)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	server.StartHTTPServer(srv)
}
