package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dog-walk-service/internal/adapters/auth/session"
	"dog-walk-service/internal/adapters/dogimages/dogceo"
	pg "dog-walk-service/internal/adapters/storage/postgres"
	"dog-walk-service/internal/domain/users"
	"dog-walk-service/internal/middleware"
	"dog-walk-service/internal/platform/config"
	"dog-walk-service/internal/platform/logger"
	"dog-walk-service/internal/platform/metrics"
	"dog-walk-service/internal/router"
)

// @title Dog Walk Service API
// @version 1.0
// @description Marketplace de paseos de perros: owners publican paseos, walkers se postulan.
// @BasePath /
func main() {
	if err := run(); err != nil {
		logger.NewFromEnv().Error("server stopped", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if cfg.InsecureSession() {
		log.Warn("using development session secret; set SESSION_SECRET", nil)
	}
	if cfg.DevAuth {
		log.Warn("dev auth enabled: X-Debug-User-ID headers are trusted", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := session.NewManager(session.Config{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Issuer: cfg.AppName,
	})
	if err != nil {
		return err
	}

	var db *sql.DB
	if cfg.DB.DSN != "" {
		db, err = pg.Open(ctx, pg.Options{
			DSN:          cfg.DB.DSN,
			MaxOpenConns: cfg.DB.MaxOpenConns,
			MaxIdleConns: cfg.DB.MaxIdleConns,
			PingTimeout:  cfg.DB.PingTimeout,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		if cfg.DB.AutoMigrate {
			if err := pg.Migrate(ctx, cfg.DB.DSN); err != nil {
				return err
			}
			log.Info("migrations applied", nil)
		}
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("DB_DSN empty: using in-memory storage", nil)
	}

	handler := router.NewRouter(router.Options{
		DB:       db,
		Logger:   log,
		Sessions: sessions,
		Metrics:  metrics.New(),
		DevAuth:  cfg.DevAuth,
		Cookie: users.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.CookieSecure,
		},
		ImageSource: dogceo.New(dogceo.Config{
			URL:     cfg.DogImage.URL,
			Timeout: cfg.DogImage.Timeout,
		}),
		RatePerWalk: cfg.Walks.RatePerWalk,
		RateLimit: middleware.RateLimitOptions{
			RPS:   cfg.Limits.RPS,
			Burst: cfg.Limits.Burst,
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
