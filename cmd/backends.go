package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/Rana718/Seedbed/internal/config"
	"github.com/Rana718/Seedbed/internal/database"
	"github.com/Rana718/Seedbed/internal/dispatch"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
	"github.com/Rana718/Seedbed/internal/seeder"
	"github.com/Rana718/Seedbed/internal/types"
	"github.com/fatih/color"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// checkTarget validates --table and --db so a bad request fails before any
// connection is made.
func checkTarget(table, dbType string) (records.Kind, types.DBType, error) {
	kind, err := records.ParseKind(table)
	if err != nil {
		return "", "", err
	}
	backend, err := types.ParseDBType(dbType)
	if err != nil {
		return "", "", err
	}
	return kind, backend, nil
}

func checkCount(cfg *config.Config, count int) error {
	if count < 0 {
		return errs.InvalidArgument("generate", "count cannot be negative")
	}
	if count > cfg.Generator.MaxCount {
		return errs.InvalidArgument("generate", "count %d exceeds the limit of %d", count, cfg.Generator.MaxCount)
	}
	return nil
}

// openBackends connects the backends named by dbType, or every configured
// backend when dbType is empty.
func openBackends(ctx context.Context, cfg *config.Config, dbType string) (*database.Set, error) {
	logger := slog.Default()
	if dbType == "" {
		return database.OpenConfigured(ctx, cfg, logger)
	}
	backend, err := types.ParseDBType(dbType)
	if err != nil {
		return nil, err
	}
	return database.Open(ctx, cfg, logger, backend)
}

// generatorFactory reads the word lists once. With a fixed seed every
// generator gets the next seed in sequence so repeated requests differ
// while a run stays reproducible.
func generatorFactory(cfg *config.Config) (dispatch.GeneratorFactory, error) {
	words, err := seeder.LoadWordLists(seeder.WordListPaths{
		FirstNames: cfg.WordLists.FirstNames,
		LastNames:  cfg.WordLists.LastNames,
		Cities:     cfg.WordLists.Cities,
		Streets:    cfg.WordLists.Streets,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load word lists: %w", err)
	}

	policy := seeder.Fallback
	if cfg.WordLists.Strict {
		policy = seeder.Strict
	}

	var calls atomic.Int64
	return func() *seeder.Generator {
		seed := cfg.Generator.Seed
		if seed != 0 {
			seed += calls.Add(1) - 1
		}
		return seeder.NewGenerator(words, seeder.Options{
			Seed:        seed,
			MaxAttempts: cfg.Generator.MaxAttempts,
			MaxCount:    cfg.Generator.MaxCount,
			Policy:      policy,
		})
	}, nil
}

func newDispatcher(cfg *config.Config, set *database.Set) (*dispatch.Dispatcher, error) {
	factory, err := generatorFactory(cfg)
	if err != nil {
		return nil, err
	}
	return dispatch.New(set, factory, slog.Default(), dispatch.WithMaxCount(cfg.Generator.MaxCount)), nil
}

func printBackends(set *database.Set) {
	for _, b := range set.Backends() {
		color.Cyan("🔌 Connected to %s", b)
	}
}
