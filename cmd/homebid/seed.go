package main

import (
	"context"
	"fmt"

	"homebid/internal/db"
	"homebid/internal/seed"
	"homebid/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type dbHandle struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func connectAndMigrate(ctx context.Context) (*dbHandle, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	logger := newLogger(cfg)

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(ctx, pool, logger); err != nil {
		pool.Close()
		return nil, err
	}

	return &dbHandle{pool: pool, logger: logger}, nil
}

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Create the gateway's tables",
	Action: func(c *cli.Context) error {
		h, err := connectAndMigrate(c.Context)
		if err != nil {
			return err
		}
		defer h.pool.Close()

		h.logger.Info("database migrated")
		return nil
	},
}

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with development buyers and contractors",
	Action: func(c *cli.Context) error {
		h, err := connectAndMigrate(c.Context)
		if err != nil {
			return err
		}
		defer h.pool.Close()

		h.logger.Info("Seeding users...")
		if err := seed.SeedFakeUsers(c.Context, store.NewUserRepository(h.pool), h.logger); err != nil {
			return fmt.Errorf("failed to seed users: %w", err)
		}

		h.logger.Info("Users seeded successfully")
		return nil
	},
}
