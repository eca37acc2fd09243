package loader

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"roomcheck/internal/models"
	"roomcheck/internal/validator"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), "redis://"+s.Addr(), "room:")
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}

	t.Cleanup(func() { _ = store.Close() })

	return store, s
}

func TestRedisStore_PutFetch(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()

	doc := Document{"id": "calm_start", "tier": "free"}
	if err := store.Put(ctx, "calm_start", doc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if !s.Exists("room:calm_start") {
		t.Error("key room:calm_start not written")
	}

	got, err := store.Fetch(ctx, "calm_start")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Fetch = %v, want %v", got, doc)
	}
}

func TestRedisStore_NotFound(t *testing.T) {
	store, _ := setupTestRedis(t)

	_, err := store.Fetch(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	store, s := setupTestRedis(t)

	if err := s.Set("room:broken", "{not json"); err != nil {
		t.Fatal(err)
	}

	_, err := store.Fetch(context.Background(), "broken")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

func TestRedisStore_List(t *testing.T) {
	store, s := setupTestRedis(t)
	ctx := context.Background()

	for _, id := range []string{"b_room", "a_room"} {
		if err := store.Put(ctx, id, Document{"id": id}); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Set("other:key", "x"); err != nil {
		t.Fatal(err)
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if !reflect.DeepEqual(ids, []string{"a_room", "b_room"}) {
		t.Errorf("List = %v", ids)
	}
}

func TestRedisStore_Unavailable(t *testing.T) {
	store, s := setupTestRedis(t)
	s.Close()

	report := New(store, validator.New()).Load(context.Background(), "calm_start", models.StrictMode)
	if len(report.Errors) != 1 || report.Errors[0].Rule != RuleStoreUnavailable {
		t.Errorf("Errors = %+v, want store_unavailable", report.Errors)
	}
}

func TestLoader_PingRedis(t *testing.T) {
	store, s := setupTestRedis(t)
	l := New(store, validator.New())

	if err := l.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	s.Close()

	if err := l.Ping(context.Background()); err == nil {
		t.Error("Ping succeeded against a stopped server")
	}
}
