package loader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	payload []byte
	err     error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}

	*dest[0].(*[]byte) = r.payload

	return nil
}

// fakeDB records statements and serves rows keyed by the first argument.
type fakeDB struct {
	rows  map[string][]byte
	err   error
	execs []string
	args  [][]any
}

func (db *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, sql)
	db.args = append(db.args, args)

	return pgconn.NewCommandTag("INSERT 0 1"), db.err
}

func (db *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported by fake")
}

func (db *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	if db.err != nil {
		return fakeRow{err: db.err}
	}

	payload, ok := db.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}

	return fakeRow{payload: payload}
}

func TestPostgresStore_Fetch(t *testing.T) {
	db := &fakeDB{rows: map[string][]byte{"calm_start": []byte(`{"id":"calm_start","tier":"free"}`)}}
	store := NewPostgresStore(db, "rooms")

	doc, err := store.Fetch(context.Background(), "calm_start")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if doc["tier"] != "free" {
		t.Errorf("doc = %v", doc)
	}
}

func TestPostgresStore_FetchErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewPostgresStore(&fakeDB{}, "rooms").Fetch(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	boom := errors.New("connection reset")

	_, err = NewPostgresStore(&fakeDB{err: boom}, "rooms").Fetch(ctx, "calm_start")
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want wrapped connection error", err)
	}
}

func TestPostgresStore_PutAndSchema(t *testing.T) {
	db := &fakeDB{}
	store := NewPostgresStore(db, "content rooms")
	ctx := context.Background()

	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	if err := store.Put(ctx, "calm_start", Document{"id": "calm_start"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if len(db.execs) != 2 {
		t.Fatalf("got %d statements, want 2", len(db.execs))
	}

	for _, sql := range db.execs {
		if !strings.Contains(sql, `"content rooms"`) {
			t.Errorf("table name not quoted in %q", sql)
		}
	}

	if got := string(db.args[1][1].([]byte)); got != `{"id":"calm_start"}` {
		t.Errorf("payload = %s", got)
	}
}

func TestPostgresStore_RejectsBadID(t *testing.T) {
	db := &fakeDB{}

	if err := NewPostgresStore(db, "rooms").Put(context.Background(), "a/b", Document{}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("err = %v, want ErrInvalidID", err)
	}

	if len(db.execs) != 0 {
		t.Error("statement executed for an invalid id")
	}
}
