package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"dog-walk-service/internal/adapters/auth/session"
	"dog-walk-service/internal/adapters/capabilities/rolematrix"
	"dog-walk-service/internal/adapters/dogimages/dogceo"
	pg "dog-walk-service/internal/adapters/storage/postgres"
	"dog-walk-service/internal/domain/dogs"
	"dog-walk-service/internal/domain/users"
	"dog-walk-service/internal/domain/walks"
	"dog-walk-service/internal/platform/config"
	"dog-walk-service/internal/platform/logger"
)

// seed carga usuarios, perros y paseos de ejemplo desde un YAML.
//
//	go run ./cmd/seed -file cmd/seed/fixtures.yaml
func main() {
	file := flag.String("file", "cmd/seed/fixtures.yaml", "fixture YAML")
	noImages := flag.Bool("no-images", false, "no llamar a la API de fotos")
	flag.Parse()

	log := logger.NewFromEnv()
	if err := run(context.Background(), log, *file, *noImages); err != nil {
		log.Error("seed failed", map[string]any{"err": err})
		os.Exit(1)
	}
}

func run(ctx context.Context, log logger.Logger, file string, noImages bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DB.DSN == "" {
		return errors.New("DB_DSN is required to seed")
	}

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	fx, err := decodeFixture(f)
	if err != nil {
		return err
	}

	db, err := pg.Open(ctx, pg.Options{
		DSN:          cfg.DB.DSN,
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		PingTimeout:  cfg.DB.PingTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := pg.Migrate(ctx, cfg.DB.DSN); err != nil {
		return err
	}

	sessions, err := session.NewManager(session.Config{Secret: cfg.Session.Secret, TTL: cfg.Session.TTL})
	if err != nil {
		return err
	}
	caps := rolematrix.NewResolver(nil)

	dogOpts := []dogs.Option{dogs.WithLogger(log)}
	if !noImages {
		dogOpts = append(dogOpts, dogs.WithImageSource(dogceo.New(dogceo.Config{
			URL:     cfg.DogImage.URL,
			Timeout: cfg.DogImage.Timeout,
		})))
	}
	dogsSvc := dogs.NewService(pg.NewDogsRepo(db), caps, dogOpts...)

	res, err := apply(ctx, services{
		users: users.NewService(pg.NewUsersRepo(db), sessions, users.WithLogger(log)),
		dogs:  dogsSvc,
		walks: walks.NewService(pg.NewWalksRepo(db), dogsSvc, caps, walks.WithLogger(log)),
	}, fx)
	if err != nil {
		return err
	}

	log.Info("seed done", map[string]any{
		"users":   res.Users,
		"skipped": res.Skipped,
		"dogs":    res.Dogs,
		"walks":   res.Walks,
	})
	return nil
}
