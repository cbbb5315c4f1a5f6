package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"lecturehub/internal/app"
	"lecturehub/internal/config"
	"lecturehub/internal/ratelimit"
	"lecturehub/internal/server"
	"lecturehub/internal/util"
	"lecturehub/pkg/store"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}
	if sessionTTL == 0 {
		sessionTTL = 24 * time.Hour
	}

	logger := util.InitLogger(cfg.LogLevel)

	st, err := store.NewMongoStore(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("failed to connect mongo: %v", err)
	}

	var sessions store.SessionStore
	switch cfg.SessionStrategy {
	case "jwt":
		sessions, err = store.NewJWTSessionStore(cfg.JWTSecret, sessionTTL)
		if err != nil {
			log.Fatalf("failed to init jwt sessions: %v", err)
		}
	default:
		sessions = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, sessionTTL)
	}

	appCore, err := app.New(app.Config{
		Store:    st,
		Sessions: sessions,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	// Auth throttling runs only when Redis is configured.
	var authLimiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" && cfg.AuthRatePerMin > 0 {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		authLimiter, err = ratelimit.NewFixedWindowLimiter(client, "lecturehub:auth", cfg.AuthRatePerMin, time.Minute)
		if err != nil {
			log.Fatalf("failed to init rate limiter: %v", err)
		}
	}

	proxies, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	httpServer := server.New(server.Config{
		App:            appCore,
		AuthLimiter:    authLimiter,
		TrustedProxies: proxies,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
