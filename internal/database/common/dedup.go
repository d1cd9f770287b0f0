package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
)

const (
	DedupConstraint = "constraint"
	DedupPrefilter  = "prefilter"
	DedupNone       = "none"
)

// DedupPolicy decides how a backend keeps natural-key records from being
// stored twice.
type DedupPolicy interface {
	Name() string
	// Filter returns the records that should be written for one kind and the
	// number it dropped.
	Filter(ctx context.Context, lookup KeyLookup, kind records.Kind, recs []records.Record) ([]records.Record, int, error)
	// IgnoreConflicts reports whether the write itself must absorb
	// duplicate-key collisions.
	IgnoreConflicts() bool
}

// ConstraintDedup writes everything and lets the store's unique constraint
// drop duplicates.
type ConstraintDedup struct{}

func (ConstraintDedup) Name() string { return DedupConstraint }

func (ConstraintDedup) Filter(_ context.Context, _ KeyLookup, _ records.Kind, recs []records.Record) ([]records.Record, int, error) {
	return recs, 0, nil
}

func (ConstraintDedup) IgnoreConflicts() bool { return true }

// PrefilterDedup asks the store which keys exist and drops those records, and
// any repeat of a key inside the batch, before writing.
type PrefilterDedup struct{}

func (PrefilterDedup) Name() string { return DedupPrefilter }

func (PrefilterDedup) Filter(ctx context.Context, lookup KeyLookup, kind records.Kind, recs []records.Record) ([]records.Record, int, error) {
	spec := records.SpecFor(kind)
	if spec == nil || spec.Key == "" || len(recs) == 0 {
		return recs, 0, nil
	}

	keys := make([]string, 0, len(recs))
	seen := make(map[string]bool, len(recs))
	for _, r := range recs {
		key, ok := r.NaturalKey()
		if ok && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	existing, err := lookup.ExistingKeys(ctx, kind, keys)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to look up existing %s keys: %w", kind, err)
	}

	kept := make([]records.Record, 0, len(recs))
	taken := make(map[string]bool, len(recs))
	for _, r := range recs {
		key, ok := r.NaturalKey()
		if ok && (existing[key] || taken[key]) {
			continue
		}
		if ok {
			taken[key] = true
		}
		kept = append(kept, r)
	}
	return kept, len(recs) - len(kept), nil
}

func (PrefilterDedup) IgnoreConflicts() bool { return false }

// NoDedup writes everything; a duplicate key is a write failure.
type NoDedup struct{}

func (NoDedup) Name() string { return DedupNone }

func (NoDedup) Filter(_ context.Context, _ KeyLookup, _ records.Kind, recs []records.Record) ([]records.Record, int, error) {
	return recs, 0, nil
}

func (NoDedup) IgnoreConflicts() bool { return false }

func ParseDedupPolicy(name string) (DedupPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DedupConstraint:
		return ConstraintDedup{}, nil
	case DedupPrefilter:
		return PrefilterDedup{}, nil
	case DedupNone:
		return NoDedup{}, nil
	default:
		return nil, errs.InvalidArgument("parse dedup policy", "unknown dedup policy %q", name)
	}
}
