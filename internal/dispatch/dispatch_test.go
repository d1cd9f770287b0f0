package dispatch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Rana718/Seedbed/internal/database"
	"github.com/Rana718/Seedbed/internal/database/common"
	"github.com/Rana718/Seedbed/internal/database/relational"
	"github.com/Rana718/Seedbed/internal/errs"
	"github.com/Rana718/Seedbed/internal/records"
	"github.com/Rana718/Seedbed/internal/seeder"
	"github.com/Rana718/Seedbed/internal/types"
)

type fakeAdapter struct {
	backend types.DBType

	mu       sync.Mutex
	stored   records.Batch
	calls    int
	writeErr error
	clearErr error
	fetchErr error
}

func (f *fakeAdapter) Backend() types.DBType { return f.backend }

func (f *fakeAdapter) InsertBatch(_ context.Context, batch records.Batch) (common.WriteStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	stats := common.WriteStats{Attempted: len(batch)}
	if f.writeErr != nil {
		return stats, f.writeErr
	}
	f.stored = append(f.stored, batch...)
	stats.Written = len(batch)
	return stats, nil
}

func (f *fakeAdapter) Clear(_ context.Context, kind records.Kind) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	var kept records.Batch
	var n int64
	for _, r := range f.stored {
		if r.Kind() == kind {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.stored = kept
	return n, nil
}

func (f *fakeAdapter) FetchAll(_ context.Context, kind records.Kind) (records.Batch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := records.Batch{}
	for _, r := range f.stored {
		if r.Kind() == kind {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeAdapter) EnsureSchema(context.Context) error { return nil }
func (f *fakeAdapter) Ping(context.Context) error         { return nil }
func (f *fakeAdapter) Close() error                       { return nil }

func newDispatcher(adapters ...database.Adapter) *Dispatcher {
	return New(database.NewSet(adapters...), func() *seeder.Generator {
		return seeder.NewGenerator(seeder.WordLists{}, seeder.Options{Seed: 99})
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newFakes() (*fakeAdapter, *fakeAdapter) {
	return &fakeAdapter{backend: types.DBMySQL}, &fakeAdapter{backend: types.DBMongoDB}
}

func TestGenerateSingleBackend(t *testing.T) {
	sql, mongo := newFakes()
	d := newDispatcher(sql, mongo)

	res, err := d.Generate(context.Background(), GenerateRequest{Count: 5, DBType: "mysql", TableName: "Client"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Status != StatusOK || res.Generated != 5 {
		t.Errorf("Unexpected result %+v", res)
	}
	if got := res.Stats[types.DBMySQL].Written; got != 5 {
		t.Errorf("Expected 5 written, got %d", got)
	}
	if len(sql.stored) != 5 || mongo.calls != 0 {
		t.Errorf("Expected only mysql to be written, got sql=%d mongo calls=%d", len(sql.stored), mongo.calls)
	}
	for _, r := range sql.stored {
		if r.Kind() != records.KindClient {
			t.Errorf("Unexpected kind %s", r.Kind())
		}
	}
}

func TestGenerateInsertIntoMany(t *testing.T) {
	sql, _ := newFakes()
	d := newDispatcher(sql)

	res, err := d.Generate(context.Background(), GenerateRequest{Count: 2, DBType: "mysql", InsertIntoMany: true})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Generated != 16 || len(sql.stored) != 16 {
		t.Fatalf("Expected 16 records, got %d generated and %d stored", res.Generated, len(sql.stored))
	}
	kinds := sql.stored.Kinds()
	want := records.Kinds()
	if len(kinds) != len(want) {
		t.Fatalf("Expected %d kinds, got %v", len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kind %d: expected %s, got %s", i, want[i], kinds[i])
		}
	}
}

func TestGenerateBothOK(t *testing.T) {
	sql, mongo := newFakes()
	d := newDispatcher(sql, mongo)

	res, err := d.Generate(context.Background(), GenerateRequest{Count: 3, DBType: "both", TableName: "task"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Status != StatusBothOK {
		t.Errorf("Expected both_ok, got %s", res.Status)
	}
	if len(sql.stored) != 3 || len(mongo.stored) != 3 {
		t.Errorf("Expected both backends to receive 3 records, got %d and %d", len(sql.stored), len(mongo.stored))
	}
	for i := range sql.stored {
		if sql.stored[i] != mongo.stored[i] {
			t.Errorf("record %d differs between backends", i)
		}
	}
}

func TestGenerateBothPartialFailure(t *testing.T) {
	sql, mongo := newFakes()
	mongo.writeErr = errs.WriteFailure("document.insert", errors.New("boom"), "insert into collection task")
	d := newDispatcher(sql, mongo)

	res, err := d.Generate(context.Background(), GenerateRequest{Count: 3, DBType: "both", TableName: "task"})
	var fanErr *FanOutError
	if !errors.As(err, &fanErr) {
		t.Fatalf("Expected *FanOutError, got %v", err)
	}
	if fanErr.Status != StatusPartialFailure || res.Status != StatusPartialFailure {
		t.Errorf("Expected partial_failure, got %s / %s", fanErr.Status, res.Status)
	}
	if !fanErr.Failed(types.DBMongoDB) || fanErr.Failed(types.DBMySQL) {
		t.Errorf("Unexpected failures %+v", fanErr.Failures)
	}
	if !errs.Is(err, errs.CodeWriteFailure) {
		t.Errorf("Expected write failure code through the fan-out error, got %v", errs.CodeOf(err))
	}
	if len(sql.stored) != 3 {
		t.Errorf("Succeeded backend must keep its writes, got %d", len(sql.stored))
	}
}

func TestGenerateBothFailed(t *testing.T) {
	sql, mongo := newFakes()
	sql.writeErr = errs.BackendUnavailable("relational.insert", nil, "down")
	mongo.writeErr = errs.BackendUnavailable("document.insert", nil, "down")
	d := newDispatcher(sql, mongo)

	_, err := d.Generate(context.Background(), GenerateRequest{Count: 1, DBType: "both", TableName: "address"})
	var fanErr *FanOutError
	if !errors.As(err, &fanErr) || fanErr.Status != StatusBothFailed || len(fanErr.Failures) != 2 {
		t.Fatalf("Expected both_failed with two failures, got %v", err)
	}
	if fanErr.Failures[0].Backend != types.DBMySQL || fanErr.Failures[1].Backend != types.DBMongoDB {
		t.Errorf("Failures must be in reporting order, got %+v", fanErr.Failures)
	}
}

func TestInvalidRequestsTouchNoBackend(t *testing.T) {
	ctx := context.Background()
	sql, mongo := newFakes()
	d := newDispatcher(sql, mongo)

	checks := []struct {
		name string
		call func() error
	}{
		{"bogus table", func() error {
			_, err := d.Generate(ctx, GenerateRequest{Count: 1, DBType: "mysql", TableName: "bogus"})
			return err
		}},
		{"oracle db", func() error {
			_, err := d.Generate(ctx, GenerateRequest{Count: 1, DBType: "oracle", TableName: "client"})
			return err
		}},
		{"negative count", func() error {
			_, err := d.Generate(ctx, GenerateRequest{Count: -1, DBType: "mysql", TableName: "client"})
			return err
		}},
		{"count over the default limit", func() error {
			_, err := d.Generate(ctx, GenerateRequest{Count: 1 << 40, DBType: "both", TableName: "technology"})
			return err
		}},
		{"insert into many count that would overflow", func() error {
			_, err := d.Generate(ctx, GenerateRequest{Count: 1 << 61, DBType: "mysql", InsertIntoMany: true})
			return err
		}},
		{"empty db", func() error {
			_, err := d.Generate(ctx, GenerateRequest{Count: 1, TableName: "client"})
			return err
		}},
		{"clear without table", func() error {
			_, err := d.Clear(ctx, ClearRequest{DBType: "both"})
			return err
		}},
		{"clear bogus table", func() error {
			_, err := d.Clear(ctx, ClearRequest{DBType: "mysql", TableName: "bogus"})
			return err
		}},
		{"fetch both", func() error {
			_, err := d.Fetch(ctx, FetchRequest{DBType: "both", TableName: "staff"})
			return err
		}},
		{"fetch oracle", func() error {
			_, err := d.Fetch(ctx, FetchRequest{DBType: "oracle", TableName: "staff"})
			return err
		}},
	}
	for _, c := range checks {
		if err := c.call(); !errs.Is(err, errs.CodeInvalidArgument) {
			t.Errorf("%s: expected invalid argument, got %v", c.name, err)
		}
	}
	if sql.calls != 0 || mongo.calls != 0 {
		t.Errorf("Backends were touched: sql=%d mongo=%d", sql.calls, mongo.calls)
	}
}

func TestGenerateMaxCountOption(t *testing.T) {
	ctx := context.Background()
	sql, _ := newFakes()
	d := New(database.NewSet(sql), func() *seeder.Generator {
		return seeder.NewGenerator(seeder.WordLists{}, seeder.Options{Seed: 99})
	}, slog.New(slog.NewTextHandler(io.Discard, nil)), WithMaxCount(3))

	if _, err := d.Generate(ctx, GenerateRequest{Count: 3, DBType: "mysql", TableName: "task"}); err != nil {
		t.Fatalf("Generate at the limit failed: %v", err)
	}
	if _, err := d.Generate(ctx, GenerateRequest{Count: 4, DBType: "mysql", TableName: "task"}); !errs.Is(err, errs.CodeInvalidArgument) {
		t.Errorf("Expected invalid argument above the limit, got %v", err)
	}
	if sql.calls != 1 {
		t.Errorf("Expected one backend call, got %d", sql.calls)
	}
}

func TestUnconfiguredBackend(t *testing.T) {
	sql, _ := newFakes()
	d := newDispatcher(sql)

	_, err := d.Generate(context.Background(), GenerateRequest{Count: 1, DBType: "both", TableName: "client"})
	if !errs.Is(err, errs.CodeBackendUnavailable) {
		t.Errorf("Expected backend unavailable, got %v", err)
	}
	if sql.calls != 0 {
		t.Error("No backend should be written when one target is missing")
	}
}

func TestClearAndFetch(t *testing.T) {
	ctx := context.Background()
	sql, mongo := newFakes()
	d := newDispatcher(sql, mongo)

	if _, err := d.Generate(ctx, GenerateRequest{Count: 4, DBType: "both", TableName: "staff"}); err != nil {
		t.Fatal(err)
	}
	fetched, err := d.Fetch(ctx, FetchRequest{DBType: "mongodb", TableName: "staff"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(fetched) != 4 {
		t.Errorf("Expected 4 staff, got %d", len(fetched))
	}

	res, err := d.Clear(ctx, ClearRequest{DBType: "both", TableName: "staff"})
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if res.Status != StatusBothOK || res.Deleted[types.DBMySQL] != 4 || res.Deleted[types.DBMongoDB] != 4 {
		t.Errorf("Unexpected clear result %+v", res)
	}

	fetched, err = d.Fetch(ctx, FetchRequest{DBType: "mysql", TableName: "staff"})
	if err != nil {
		t.Fatal(err)
	}
	if len(fetched) != 0 {
		t.Errorf("Expected empty fetch after clear, got %d", len(fetched))
	}
}

func TestFetchErrorPassesThrough(t *testing.T) {
	sql, _ := newFakes()
	sql.fetchErr = errs.ParseFailure("relational.fetch", errors.New("bad date"), "row 1 of task")
	d := newDispatcher(sql)

	_, err := d.Fetch(context.Background(), FetchRequest{DBType: "mysql", TableName: "task"})
	if !errs.Is(err, errs.CodeParseFailure) {
		t.Errorf("Expected parse failure, got %v", err)
	}
}

func TestTechnologyEndToEndOnSQLite(t *testing.T) {
	ctx := context.Background()
	a, err := relational.Open(ctx, "file:dispatch_technology?mode=memory&cache=shared", relational.Options{
		Provider:     "sqlite",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	defer a.Close()
	if err := a.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}
	d := newDispatcher(a)

	if _, err := d.Generate(ctx, GenerateRequest{Count: 3, DBType: "mysql", TableName: "technology"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	fetched, err := d.Fetch(ctx, FetchRequest{DBType: "mysql", TableName: "technology"})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(fetched) != 3 {
		t.Fatalf("Expected 3 technologies, got %d", len(fetched))
	}
	for _, r := range fetched {
		tech := r.(*records.Technology)
		canonical := false
		for _, c := range seeder.Technologies {
			if c == *tech {
				canonical = true
			}
		}
		if !canonical {
			t.Errorf("Non-canonical pair %+v", tech)
		}
	}
}
