package mongodb

import (
	"context"
	"log/slog"

	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/types"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const DefaultDatabase = "soft"

type Options struct {
	// Database overrides the database named in the URI. When both are empty
	// DefaultDatabase is used.
	Database string
	// Dedup defaults to the prefilter policy.
	Dedup  common.DedupPolicy
	Logger *slog.Logger
}

// Adapter stores records as tagged documents, one collection per kind.
type Adapter struct {
	client     *mongo.Client
	dbName     string
	collection func(name string) collection
	dedup      common.DedupPolicy
	logger     *slog.Logger
}

func newAdapter(dbName string, opts Options, source func(string) collection) *Adapter {
	if opts.Dedup == nil {
		opts.Dedup = common.PrefilterDedup{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Adapter{
		dbName:     dbName,
		collection: source,
		dedup:      opts.Dedup,
		logger:     opts.Logger.With("backend", "document", "database", dbName),
	}
}

func resolveDBName(uri string, opts Options) string {
	if opts.Database != "" {
		return opts.Database
	}
	if name := extractDBName(uri); name != "" {
		return name
	}
	return DefaultDatabase
}

// Open connects to MongoDB and verifies the server answers.
func Open(ctx context.Context, uri string, opts Options) (*Adapter, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.BackendUnavailable("document.connect", err, "failed to connect to MongoDB")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, errs.BackendUnavailable("document.connect", err, "failed to ping MongoDB")
	}

	dbName := resolveDBName(uri, opts)
	database := client.Database(dbName)
	a := newAdapter(dbName, opts, func(name string) collection {
		return mongoCollection{coll: database.Collection(name)}
	})
	a.client = client
	a.logger.Debug("connected")
	return a, nil
}

func (a *Adapter) Backend() types.DBType {
	return types.DBMongoDB
}

func (a *Adapter) Database() string {
	return a.dbName
}

func (a *Adapter) DedupPolicy() common.DedupPolicy {
	return a.dedup
}

func (a *Adapter) Ping(ctx context.Context) error {
	if a.client == nil {
		return nil
	}
	if err := a.client.Ping(ctx, nil); err != nil {
		return errs.BackendUnavailable("document.ping", err, "ping failed")
	}
	return nil
}

func (a *Adapter) Close() error {
	if a.client != nil {
		return a.client.Disconnect(context.Background())
	}
	return nil
}
