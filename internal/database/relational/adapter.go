package relational

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/types"
)

type Options struct {
	Provider        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// Dedup defaults to the constraint policy.
	Dedup  common.DedupPolicy
	Logger *slog.Logger
}

// Adapter stores records in one table per kind through database/sql.
type Adapter struct {
	db      *sql.DB
	qb      squirrel.StatementBuilderType
	dialect *Dialect
	dedup   common.DedupPolicy
	logger  *slog.Logger
	opts    Options
}

func New(opts Options) (*Adapter, error) {
	if opts.Provider == "" {
		opts.Provider = "mysql"
	}
	dialect, err := DialectFor(opts.Provider)
	if err != nil {
		return nil, errs.InvalidArgument("relational.new", "%v", err)
	}
	if opts.Dedup == nil {
		opts.Dedup = common.ConstraintDedup{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns < 0 {
		opts.MaxIdleConns = 0
	}
	return &Adapter{
		qb:      squirrel.StatementBuilder.PlaceholderFormat(dialect.Placeholder),
		dialect: dialect,
		dedup:   opts.Dedup,
		logger:  opts.Logger.With("backend", "relational", "dialect", dialect.Name),
		opts:    opts,
	}, nil
}

// Open builds an adapter and connects it.
func Open(ctx context.Context, url string, opts Options) (*Adapter, error) {
	a, err := New(opts)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx, url); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open(a.dialect.Driver, a.dialect.prepareDSN(url))
	if err != nil {
		return errs.BackendUnavailable("relational.connect", err, "failed to open %s connection", a.dialect.Name)
	}
	db.SetMaxOpenConns(a.opts.MaxOpenConns)
	db.SetMaxIdleConns(a.opts.MaxIdleConns)
	db.SetConnMaxLifetime(a.opts.ConnMaxLifetime)
	db.SetConnMaxIdleTime(a.opts.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return errs.BackendUnavailable("relational.connect", err, "failed to reach %s", a.dialect.Name)
	}

	a.db = db
	a.logger.Debug("connected", "max_open_conns", a.opts.MaxOpenConns)
	return nil
}

// Backend reports the dispatch slot this adapter serves, whatever the
// underlying engine.
func (a *Adapter) Backend() types.DBType {
	return types.DBMySQL
}

func (a *Adapter) Dialect() *Dialect {
	return a.dialect
}

func (a *Adapter) DedupPolicy() common.DedupPolicy {
	return a.dedup
}

func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return errs.BackendUnavailable("relational.ping", nil, "not connected")
	}
	if err := a.db.PingContext(ctx); err != nil {
		return errs.BackendUnavailable("relational.ping", err, "ping failed")
	}
	return nil
}

func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
