package dispatch

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/Rana718/Seedbed/internal/database"
	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/metrics"
	"github.com/Rana718/Seedbed/internal/records"
	"github.com/Rana718/Seedbed/internal/seeder"
	"github.com/Rana718/Seedbed/internal/types"
)

type GenerateRequest struct {
	Count          int    `json:"count"`
	DBType         string `json:"db_type"`
	TableName      string `json:"table_name"`
	InsertIntoMany bool   `json:"insert_into_many"`
}

type ClearRequest struct {
	DBType    string `json:"db_type"`
	TableName string `json:"table_name"`
}

type FetchRequest struct {
	DBType    string `json:"db_type"`
	TableName string `json:"table_name"`
}

type GenerateResult struct {
	Count     int                                `json:"count"`
	Generated int                                `json:"generated"`
	DBType    types.DBType                       `json:"db_type"`
	Stats     map[types.DBType]common.WriteStats `json:"stats"`
	Status    Status                             `json:"status"`
}

type ClearResult struct {
	DBType  types.DBType           `json:"db_type"`
	Kind    records.Kind           `json:"table_name"`
	Deleted map[types.DBType]int64 `json:"deleted"`
	Status  Status                 `json:"status"`
}

// AdapterSource resolves a backend to its long-lived adapter.
type AdapterSource interface {
	Get(backend types.DBType) (database.Adapter, bool)
}

// GeneratorFactory builds the generator for one request.
type GeneratorFactory func() *seeder.Generator

// Dispatcher validates requests and routes them to the adapters. It keeps no
// per-request state.
type Dispatcher struct {
	adapters     AdapterSource
	newGenerator GeneratorFactory
	logger       *slog.Logger
	maxCount     int
}

type Option func(*Dispatcher)

// WithMaxCount caps the count a generate request may ask for. Values below
// one keep seeder.DefaultMaxCount.
func WithMaxCount(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxCount = n
		}
	}
}

func New(adapters AdapterSource, newGenerator GeneratorFactory, logger *slog.Logger, opts ...Option) *Dispatcher {
	if newGenerator == nil {
		newGenerator = func() *seeder.Generator {
			return seeder.NewGenerator(seeder.WordLists{}, seeder.Options{})
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{adapters: adapters, newGenerator: newGenerator, logger: logger, maxCount: seeder.DefaultMaxCount}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// targets resolves db_type to adapters, expanding "both" in reporting order.
func (d *Dispatcher) targets(op string, dbType types.DBType) ([]database.Adapter, error) {
	backends := []types.DBType{dbType}
	if dbType == types.DBBoth {
		backends = types.Backends()
	}
	out := make([]database.Adapter, 0, len(backends))
	for _, b := range backends {
		a, ok := d.adapters.Get(b)
		if !ok {
			return nil, errs.BackendUnavailable(op, nil, "%s backend is not configured", b)
		}
		out = append(out, a)
	}
	return out, nil
}

// Generate produces Count records of TableName (or of every canonical kind
// with InsertIntoMany) and writes them to the selected backends. Every backend
// receives the same batch.
func (d *Dispatcher) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	dbType, err := types.ParseDBType(req.DBType)
	if err != nil {
		return nil, err
	}
	if req.Count < 0 {
		return nil, errs.InvalidArgument("dispatch.generate", "count must not be negative")
	}
	if req.Count > d.maxCount {
		return nil, errs.InvalidArgument("dispatch.generate", "count %d exceeds the limit of %d", req.Count, d.maxCount)
	}
	var kind records.Kind
	if !req.InsertIntoMany {
		if kind, err = records.ParseKind(req.TableName); err != nil {
			return nil, err
		}
	}
	targets, err := d.targets("dispatch.generate", dbType)
	if err != nil {
		return nil, err
	}

	gen := d.newGenerator()
	var batch records.Batch
	if req.InsertIntoMany {
		batch, err = gen.GenerateMany(req.Count)
	} else {
		batch, err = gen.Generate(kind, req.Count)
	}
	if err != nil {
		return nil, err
	}
	for _, g := range batch.Partition() {
		metrics.ObserveGenerated(string(g.Kind), len(g.Records))
	}

	result := &GenerateResult{
		Count:     req.Count,
		Generated: len(batch),
		DBType:    dbType,
		Stats:     make(map[types.DBType]common.WriteStats, len(targets)),
	}
	var mu sync.Mutex
	result.Status, err = fanOut(ctx, targets, func(ctx context.Context, _ int, a database.Adapter) error {
		stats, err := a.InsertBatch(ctx, batch)
		mu.Lock()
		result.Stats[a.Backend()] = stats
		mu.Unlock()
		return err
	})

	d.logger.Info("generate",
		"db_type", dbType, "table_name", kind, "insert_into_many", req.InsertIntoMany,
		"count", req.Count, "generated", len(batch), "status", result.Status, "error", err)
	return result, err
}

// Clear empties one kind on the selected backends.
func (d *Dispatcher) Clear(ctx context.Context, req ClearRequest) (*ClearResult, error) {
	dbType, err := types.ParseDBType(req.DBType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.TableName) == "" {
		return nil, errs.InvalidArgument("dispatch.clear", "table_name is required")
	}
	kind, err := records.ParseKind(req.TableName)
	if err != nil {
		return nil, err
	}
	targets, err := d.targets("dispatch.clear", dbType)
	if err != nil {
		return nil, err
	}

	result := &ClearResult{
		DBType:  dbType,
		Kind:    kind,
		Deleted: make(map[types.DBType]int64, len(targets)),
	}
	var mu sync.Mutex
	result.Status, err = fanOut(ctx, targets, func(ctx context.Context, _ int, a database.Adapter) error {
		n, err := a.Clear(ctx, kind)
		if err != nil {
			return err
		}
		mu.Lock()
		result.Deleted[a.Backend()] = n
		mu.Unlock()
		return nil
	})

	d.logger.Info("clear", "db_type", dbType, "table_name", kind, "status", result.Status, "error", err)
	return result, err
}

// Fetch returns every stored record of one kind from a single backend.
func (d *Dispatcher) Fetch(ctx context.Context, req FetchRequest) (records.Batch, error) {
	dbType, err := types.ParseDBType(req.DBType)
	if err != nil {
		return nil, err
	}
	if dbType == types.DBBoth {
		return nil, errs.InvalidArgument("dispatch.fetch", "db_type both is not supported for fetch")
	}
	kind, err := records.ParseKind(req.TableName)
	if err != nil {
		return nil, err
	}
	targets, err := d.targets("dispatch.fetch", dbType)
	if err != nil {
		return nil, err
	}

	batch, err := targets[0].FetchAll(ctx, kind)
	if err != nil {
		d.logger.Error("fetch failed", "db_type", dbType, "table_name", kind, "error", err)
		return nil, err
	}
	d.logger.Debug("fetch", "db_type", dbType, "table_name", kind, "returned", len(batch))
	return batch, nil
}
