// Package main provides a tool to load the catalog CSV files into the SQLite database.
//
// It accepts the same flags and environment variables as the server. The
// database is emptied first, so running it twice gives the same result.
//
// Usage:
//
//	go run ./cmd/seed --data-path ./data --database-path ./games.db
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/config"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/store/csvdata"
	"github.com/j0yzhu/GameWebApp/internal/store/sqlite"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}
	db, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Reset(ctx); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}

	report, err := csvdata.NewLoader(cfg.Data.Path, hasher, log.Logger).Populate(ctx, db.Repositories())
	if err != nil {
		return err
	}

	log.Info("Seed complete",
		"database", cfg.Database.Path,
		"games", report.Games,
		"users", report.Users,
		"reviews", report.Reviews,
		"wishes", report.Wishes,
		"skipped", report.Skipped,
	)
	return nil
}
