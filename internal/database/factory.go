package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Rana718/Seedbed/internal/config"
	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/database/mongodb"
	"github.com/Rana718/Seedbed/internal/database/relational"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/types"
)

// NewAdapter connects the adapter serving backend using cfg.
func NewAdapter(ctx context.Context, backend types.DBType, cfg *config.Config, logger *slog.Logger) (Adapter, error) {
	switch backend {
	case types.DBMySQL:
		url, err := cfg.RelationalURL()
		if err != nil {
			return nil, errs.BackendUnavailable("database.open", err, "relational backend not configured")
		}
		dedup, err := common.ParseDedupPolicy(cfg.Relational.Dedup)
		if err != nil {
			return nil, err
		}
		a, err := relational.Open(ctx, url, relational.Options{
			Provider:        cfg.Relational.Provider,
			MaxOpenConns:    cfg.Relational.MaxOpenConns,
			MaxIdleConns:    cfg.Relational.MaxIdleConns,
			ConnMaxLifetime: cfg.Relational.ConnMaxLifetime,
			Dedup:           dedup,
			Logger:          logger,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	case types.DBMongoDB:
		uri, err := cfg.DocumentURI()
		if err != nil {
			return nil, errs.BackendUnavailable("database.open", err, "document backend not configured")
		}
		dedup, err := common.ParseDedupPolicy(cfg.Document.Dedup)
		if err != nil {
			return nil, err
		}
		a, err := mongodb.Open(ctx, uri, mongodb.Options{
			Database: cfg.Document.Database,
			Dedup:    dedup,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, errs.InvalidArgument("database.open", "no adapter for db_type %q", backend)
	}
}

// Set holds the long-lived adapters of a process, keyed by backend.
type Set struct {
	adapters map[types.DBType]Adapter
}

func NewSet(adapters ...Adapter) *Set {
	s := &Set{adapters: make(map[types.DBType]Adapter, len(adapters))}
	for _, a := range adapters {
		s.adapters[a.Backend()] = a
	}
	return s
}

// Open connects every backend named, expanding "both". Adapters already
// opened are closed again when a later one fails.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, backends ...types.DBType) (*Set, error) {
	s := NewSet()
	for _, b := range expand(backends) {
		if _, ok := s.adapters[b]; ok {
			continue
		}
		a, err := NewAdapter(ctx, b, cfg, logger)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to open %s: %w", b, err)
		}
		s.adapters[b] = a
	}
	return s, nil
}

// OpenConfigured connects every backend whose connection string is set.
func OpenConfigured(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}
	configured := cfg.Configured()
	if len(configured) == 0 {
		return nil, fmt.Errorf("no backend configured: set %s and/or %s", cfg.Relational.URLEnv, cfg.Document.URIEnv)
	}
	for _, b := range types.Backends() {
		if !cfg.IsConfigured(b) {
			logger.Warn("backend not configured, requests for it will fail", "db_type", b)
		}
	}
	return Open(ctx, cfg, logger, configured...)
}

func expand(backends []types.DBType) []types.DBType {
	var out []types.DBType
	for _, b := range backends {
		if b == types.DBBoth {
			out = append(out, types.Backends()...)
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *Set) Get(backend types.DBType) (Adapter, bool) {
	a, ok := s.adapters[backend]
	return a, ok
}

// Backends lists the connected backends in reporting order.
func (s *Set) Backends() []types.DBType {
	var out []types.DBType
	for _, b := range types.Backends() {
		if _, ok := s.adapters[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Ping checks every adapter and returns the failures by backend.
func (s *Set) Ping(ctx context.Context) map[types.DBType]error {
	failed := make(map[types.DBType]error)
	for b, a := range s.adapters {
		if err := a.Ping(ctx); err != nil {
			failed[b] = err
		}
	}
	return failed
}

func (s *Set) EnsureSchema(ctx context.Context) error {
	for _, b := range s.Backends() {
		if err := s.adapters[b].EnsureSchema(ctx); err != nil {
			return fmt.Errorf("%s: %w", b, err)
		}
	}
	return nil
}

func (s *Set) Close() error {
	var errList []error
	for b, a := range s.adapters {
		if err := a.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close %s: %w", b, err))
		}
	}
	return errors.Join(errList...)
}
