package relational

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/metrics"
	"github.com/Rana718/Seedbed/internal/records"
)

func (a *Adapter) spec(op string, kind records.Kind) (*records.Spec, error) {
	spec := records.SpecFor(kind)
	if spec == nil {
		return nil, errs.InvalidArgument(op, "unsupported table_name %q", kind)
	}
	return spec, nil
}

func (a *Adapter) quoted(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = a.dialect.quote(n)
	}
	return out
}

// insertSQL builds the single-row insert used for every record of a kind.
func (a *Adapter) insertSQL(spec *records.Spec) (string, error) {
	cols := spec.ColumnNames()
	b := a.qb.Insert(a.dialect.quote(spec.Table)).
		Columns(a.quoted(cols)...).
		Values(make([]any, len(cols))...)
	if a.dedup.IgnoreConflicts() {
		b = a.dialect.ignoreInsert(b)
	}
	query, _, err := b.ToSql()
	return query, err
}

type pendingGroup struct {
	spec    *records.Spec
	records []records.Record
	dropped int
}

// InsertBatch writes the batch in one transaction: every record is stored or
// none is.
func (a *Adapter) InsertBatch(ctx context.Context, batch records.Batch) (stats common.WriteStats, err error) {
	started := time.Now()
	defer func() { metrics.Observe(a.dialect.Name, "insert", started, err) }()

	stats.Attempted = len(batch)
	if err := batch.Validate(); err != nil {
		return stats, err
	}
	if len(batch) == 0 {
		return stats, nil
	}

	var plan []pendingGroup
	for _, g := range batch.Partition() {
		spec, err := a.spec("relational.insert", g.Kind)
		if err != nil {
			return stats, err
		}
		kept, dropped, err := a.dedup.Filter(ctx, a, g.Kind, g.Records)
		if err != nil {
			return stats, errs.WriteFailure("relational.insert", err, "dedup %s", g.Kind)
		}
		plan = append(plan, pendingGroup{spec: spec, records: kept, dropped: dropped})
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, errs.BackendUnavailable("relational.insert", err, "failed to begin transaction")
	}
	defer tx.Rollback()

	written := make([]int, len(plan))
	for i, p := range plan {
		n, err := a.insertGroup(ctx, tx, p)
		if err != nil {
			return stats, errs.WriteFailure("relational.insert", err, "insert into %s", p.spec.Table)
		}
		written[i] = n
	}

	if err := tx.Commit(); err != nil {
		return stats, errs.WriteFailure("relational.insert", err, "failed to commit")
	}

	for i, p := range plan {
		skipped := p.dropped + len(p.records) - written[i]
		stats.Written += written[i]
		metrics.ObserveWrite(a.dialect.Name, string(p.spec.Kind), written[i], skipped)
	}
	stats.Skipped = stats.Attempted - stats.Written

	a.logger.Debug("batch inserted",
		"attempted", stats.Attempted, "written", stats.Written, "skipped", stats.Skipped)
	return stats, nil
}

func (a *Adapter) insertGroup(ctx context.Context, tx *sql.Tx, p pendingGroup) (int, error) {
	if len(p.records) == 0 {
		return 0, nil
	}
	query, err := a.insertSQL(p.spec)
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	var written int64
	for i, r := range p.records {
		res, err := stmt.ExecContext(ctx, r.Values()...)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		written += n
	}
	return int(written), nil
}

// Clear deletes every row of the kind's table and returns how many went.
func (a *Adapter) Clear(ctx context.Context, kind records.Kind) (deleted int64, err error) {
	started := time.Now()
	defer func() { metrics.Observe(a.dialect.Name, "clear", started, err) }()

	spec, err := a.spec("relational.clear", kind)
	if err != nil {
		return 0, err
	}
	query, args, err := a.qb.Delete(a.dialect.quote(spec.Table)).ToSql()
	if err != nil {
		return 0, errs.WriteFailure("relational.clear", err, "failed to build delete")
	}
	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errs.WriteFailure("relational.clear", err, "delete from %s", spec.Table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.WriteFailure("relational.clear", err, "delete from %s", spec.Table)
	}
	a.logger.Info("table cleared", "table", spec.Table, "deleted", n)
	return n, nil
}

// selectSQL reads the kind's own columns only, so tables created outside
// EnsureSchema are readable too. Kinds keyed by a primary-key column come
// back ordered by it.
func (a *Adapter) selectSQL(spec *records.Spec) (string, []any, error) {
	b := a.qb.Select(a.quoted(spec.ColumnNames())...).From(a.dialect.quote(spec.Table))
	if spec.KeyIsPrimary {
		b = b.OrderBy(a.dialect.quote(spec.Key))
	}
	return b.ToSql()
}

// FetchAll returns every row of the kind. A row that cannot be decoded fails
// the whole call.
func (a *Adapter) FetchAll(ctx context.Context, kind records.Kind) (batch records.Batch, err error) {
	started := time.Now()
	defer func() { metrics.Observe(a.dialect.Name, "fetch", started, err) }()

	spec, err := a.spec("relational.fetch", kind)
	if err != nil {
		return nil, err
	}
	query, args, err := a.selectSQL(spec)
	if err != nil {
		return nil, errs.BackendUnavailable("relational.fetch", err, "failed to build select")
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.BackendUnavailable("relational.fetch", err, "select from %s", spec.Table)
	}
	defer rows.Close()

	batch = records.Batch{}
	for rows.Next() {
		r, err := records.ScanRow(kind, rows)
		if err != nil {
			return nil, errs.ParseFailure("relational.fetch", err, "row %d of %s", len(batch)+1, spec.Table)
		}
		batch = append(batch, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.BackendUnavailable("relational.fetch", err, "reading %s", spec.Table)
	}
	return batch, nil
}

// ExistingKeys returns the subset of keys already present in the kind's
// natural-key column.
func (a *Adapter) ExistingKeys(ctx context.Context, kind records.Kind, keys []string) (map[string]bool, error) {
	spec, err := a.spec("relational.existing_keys", kind)
	if err != nil {
		return nil, err
	}
	found := make(map[string]bool)
	if spec.Key == "" || len(keys) == 0 {
		return found, nil
	}

	args := make([]any, len(keys))
	for i, k := range keys {
		if args[i], err = spec.KeyArg(k); err != nil {
			return nil, errs.InvalidArgument("relational.existing_keys", "%v", err)
		}
	}
	keyCol := a.dialect.quote(spec.Key)
	query, qargs, err := a.qb.Select(keyCol).
		From(a.dialect.quote(spec.Table)).
		Where(squirrel.Eq{keyCol: args}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build key lookup: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, qargs...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up keys in %s: %w", spec.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		found[key] = true
	}
	return found, rows.Err()
}
