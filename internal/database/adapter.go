package database

import (
	"context"

	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/database/mongodb"
	"github.com/Rana718/Seedbed/internal/database/relational"
	"github.com/Rana718/Seedbed/internal/records"
	"github.com/Rana718/Seedbed/internal/types"
)

// Adapter is the contract both persistence backends implement. Calls on one
// adapter may run concurrently; each call is independent.
type Adapter interface {
	Backend() types.DBType

	// InsertBatch persists the batch with the backend's native bulk path.
	// Records rejected as duplicates are counted in Skipped, never errors.
	InsertBatch(ctx context.Context, batch records.Batch) (common.WriteStats, error)
	Clear(ctx context.Context, kind records.Kind) (int64, error)
	FetchAll(ctx context.Context, kind records.Kind) (records.Batch, error)

	// EnsureSchema creates missing tables or indexes. It is idempotent.
	EnsureSchema(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Adapter = (*relational.Adapter)(nil)
	_ Adapter = (*mongodb.Adapter)(nil)
)
