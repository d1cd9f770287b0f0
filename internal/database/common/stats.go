package common

import (
	"context"

	"github.com/Rana718/Seedbed/internal/records"
)

// WriteStats counts one InsertBatch call. Attempted is the input size,
// Written what the backend reports as stored, Skipped what dedup dropped or
// the backend ignored as a duplicate.
type WriteStats struct {
	Attempted int `json:"attempted"`
	Written   int `json:"written"`
	Skipped   int `json:"skipped"`
}

func (s *WriteStats) Add(o WriteStats) {
	s.Attempted += o.Attempted
	s.Written += o.Written
	s.Skipped += o.Skipped
}

// KeyLookup reports which of the given natural keys of a kind are already
// persisted.
type KeyLookup interface {
	ExistingKeys(ctx context.Context, kind records.Kind, keys []string) (map[string]bool, error)
}
