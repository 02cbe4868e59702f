package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/j0yzhu/GameWebApp/internal/auth"
	"github.com/j0yzhu/GameWebApp/internal/config"
	"github.com/j0yzhu/GameWebApp/internal/logger"
	"github.com/j0yzhu/GameWebApp/internal/store"
	"github.com/j0yzhu/GameWebApp/internal/store/csvdata"
	"github.com/j0yzhu/GameWebApp/internal/store/memory"
	"github.com/j0yzhu/GameWebApp/internal/store/sqlite"
)

// RepositoriesHandle wraps the selected repository variant with shutdown capability.
type RepositoriesHandle struct {
	*store.Repositories

	// Pinger is nil for the in-memory variant.
	Pinger store.Pinger
}

// Shutdown implements do.Shutdownable.
func (h *RepositoriesHandle) Shutdown() error {
	return h.Repositories.Shutdown()
}

// ProvideRepositories opens the configured repository variant and fills it
// from the CSV data directory. The database variant is only populated when it
// holds no games or when a reset was requested.
func ProvideRepositories(i do.Injector) (*RepositoriesHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	hasher := do.MustInvoke[*auth.PasswordHasher](i)

	ctx := context.Background()
	loader := csvdata.NewLoader(cfg.Data.Path, hasher, log.Logger)

	switch cfg.Data.Repository {
	case config.AdapterMemory:
		repos := memory.New()
		report, err := loader.Populate(ctx, repos)
		if err != nil {
			return nil, fmt.Errorf("populate memory repository: %w", err)
		}
		log.Info("In-memory repository ready", "games", report.Games, "users", report.Users)
		return &RepositoriesHandle{Repositories: repos}, nil

	case config.AdapterDatabase:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		db, err := sqlite.Open(cfg.Database.Path, log.Logger)
		if err != nil {
			return nil, err
		}
		repos := db.Repositories()

		if err := seedDatabase(ctx, db, loader, cfg.Database.Reset, log); err != nil {
			_ = db.Close()
			return nil, err
		}

		log.Info("Database repository ready", "path", cfg.Database.Path)
		return &RepositoriesHandle{Repositories: repos, Pinger: db}, nil
	}

	return nil, fmt.Errorf("unknown repository adapter: %s", cfg.Data.Repository)
}

// seedDatabase resets the database when asked and populates it when empty.
func seedDatabase(ctx context.Context, db *sqlite.Store, loader *csvdata.Loader, reset bool, log *logger.Logger) error {
	if reset {
		if err := db.Reset(ctx); err != nil {
			return fmt.Errorf("reset database: %w", err)
		}
	}

	n, err := db.NumberOfGames(ctx)
	if err != nil {
		return fmt.Errorf("count games: %w", err)
	}
	if n > 0 {
		log.Debug("Database already populated", "games", n)
		return nil
	}

	report, err := loader.Populate(ctx, db.Repositories())
	if err != nil {
		return fmt.Errorf("populate database: %w", err)
	}
	log.Info("Database populated from CSV",
		"games", report.Games,
		"users", report.Users,
		"reviews", report.Reviews,
		"wishes", report.Wishes,
	)
	return nil
}
