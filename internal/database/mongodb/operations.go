package mongodb

import (
	"context"
	"time"

	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/metrics"
	"github.com/Rana718/Seedbed/internal/records"
	"github.com/Rana718/Seedbed/internal/types"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var backendLabel = string(types.DBMongoDB)

func specFor(op string, kind records.Kind) (*records.Spec, error) {
	spec := records.SpecFor(kind)
	if spec == nil {
		return nil, errs.InvalidArgument(op, "unsupported table_name %q", kind)
	}
	return spec, nil
}

// InsertBatch writes one InsertMany per kind. Collections are written in
// first-seen order and are not jointly atomic: when a later collection fails,
// earlier ones stay written and stats reflects them.
func (a *Adapter) InsertBatch(ctx context.Context, batch records.Batch) (stats common.WriteStats, err error) {
	started := time.Now()
	defer func() { metrics.Observe(backendLabel, "insert", started, err) }()

	stats.Attempted = len(batch)
	if err := batch.Validate(); err != nil {
		return stats, err
	}

	for _, g := range batch.Partition() {
		spec, err := specFor("document.insert", g.Kind)
		if err != nil {
			return stats, err
		}
		kept, dropped, err := a.dedup.Filter(ctx, a, g.Kind, g.Records)
		if err != nil {
			return stats, errs.WriteFailure("document.insert", err, "dedup %s", spec.Table)
		}

		inserted := 0
		if len(kept) > 0 {
			docs := make([]any, len(kept))
			for i, r := range kept {
				docs[i] = r.Document()
			}
			inserted, err = a.collection(spec.Table).InsertMany(ctx, docs, a.dedup.IgnoreConflicts())
			if err != nil {
				a.logger.Error("insert failed", "collection", spec.Table, "committed", stats.Written, "error", err)
				return stats, errs.WriteFailure("document.insert", err, "insert into collection %s", spec.Table)
			}
		}
		stats.Written += inserted
		metrics.ObserveWrite(backendLabel, string(g.Kind), inserted, dropped+len(kept)-inserted)
	}
	stats.Skipped = stats.Attempted - stats.Written

	a.logger.Debug("batch inserted",
		"attempted", stats.Attempted, "written", stats.Written, "skipped", stats.Skipped)
	return stats, nil
}

// Clear removes every document of the kind's collection.
func (a *Adapter) Clear(ctx context.Context, kind records.Kind) (deleted int64, err error) {
	started := time.Now()
	defer func() { metrics.Observe(backendLabel, "clear", started, err) }()

	spec, err := specFor("document.clear", kind)
	if err != nil {
		return 0, err
	}
	n, err := a.collection(spec.Table).DeleteAll(ctx)
	if err != nil {
		return 0, errs.WriteFailure("document.clear", err, "delete from collection %s", spec.Table)
	}
	a.logger.Info("collection cleared", "collection", spec.Table, "deleted", n)
	return n, nil
}

// FetchAll streams the kind's collection. Documents that do not decode into
// the kind are logged and skipped; a cursor failure aborts the call.
func (a *Adapter) FetchAll(ctx context.Context, kind records.Kind) (batch records.Batch, err error) {
	started := time.Now()
	defer func() { metrics.Observe(backendLabel, "fetch", started, err) }()

	spec, err := specFor("document.fetch", kind)
	if err != nil {
		return nil, err
	}
	cur, err := a.collection(spec.Table).FindAll(ctx)
	if err != nil {
		return nil, errs.BackendUnavailable("document.fetch", err, "find in collection %s", spec.Table)
	}
	defer cur.Close(ctx)

	batch = records.Batch{}
	skipped := 0
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			a.logger.Warn("skipping undecodable document", "collection", spec.Table, "error", err)
			skipped++
			continue
		}
		r, err := records.FromDocument(kind, normalizeDocument(doc))
		if err != nil {
			a.logger.Warn("skipping malformed document", "collection", spec.Table, "error", err)
			skipped++
			continue
		}
		batch = append(batch, r)
	}
	if err := cur.Err(); err != nil {
		return nil, errs.BackendUnavailable("document.fetch", err, "reading collection %s", spec.Table)
	}
	if skipped > 0 {
		a.logger.Info("fetch finished with skipped documents", "collection", spec.Table, "returned", len(batch), "skipped", skipped)
	}
	return batch, nil
}

func (a *Adapter) ExistingKeys(ctx context.Context, kind records.Kind, keys []string) (map[string]bool, error) {
	spec, err := specFor("document.existing_keys", kind)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool)
	if spec.Key == "" || len(keys) == 0 {
		return found, nil
	}

	values := make([]any, len(keys))
	for i, k := range keys {
		if values[i], err = spec.KeyArg(k); err != nil {
			return nil, errs.InvalidArgument("document.existing_keys", "%v", err)
		}
	}
	matches, err := a.collection(spec.Table).FindValues(ctx, spec.KeyField(), values)
	if err != nil {
		return nil, err
	}
	for _, v := range matches {
		found[keyString(v)] = true
	}
	return found, nil
}

// EnsureSchema creates a unique index on the natural key of every kind that
// has one. Collections themselves are created on first insert.
func (a *Adapter) EnsureSchema(ctx context.Context) error {
	for _, k := range records.AllKinds() {
		spec := records.SpecFor(k)
		if spec.Key == "" {
			continue
		}
		if err := a.collection(spec.Table).EnsureUniqueIndex(ctx, spec.KeyField()); err != nil {
			return errs.WriteFailure("document.ensure_schema", err, "unique index on %s.%s", spec.Table, spec.KeyField())
		}
	}
	a.logger.Info("indexes ensured")
	return nil
}
