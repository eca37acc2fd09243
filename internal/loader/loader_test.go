package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"roomcheck/internal/models"
	"roomcheck/internal/validator"
)

// memStore is an in-memory Store with optional failure injection.
type memStore struct {
	mu    sync.Mutex
	docs  map[string]Document
	err   error
	calls int
}

func (s *memStore) Fetch(_ context.Context, id string) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return doc, nil
}

func newTestLoader(t *testing.T, store Store) *Loader {
	t.Helper()
	return New(store, validator.New(), WithConcurrency(2))
}

func fixtureStore(t *testing.T) *memStore {
	t.Helper()

	doc, err := ReadFile("testdata/calm_start.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	return &memStore{docs: map[string]Document{"calm_start": doc}}
}

func TestLoad_Found(t *testing.T) {
	report := newTestLoader(t, fixtureStore(t)).Load(context.Background(), "calm_start", models.StrictMode)

	if !report.Valid {
		t.Errorf("Errors = %+v, want none", report.Errors)
	}

	if report.CleanedRecord == nil || report.CleanedRecord.Tier != "vip1" {
		t.Errorf("CleanedRecord = %+v, want tier normalized to vip1", report.CleanedRecord)
	}

	if !report.Autofixed {
		t.Error("Autofixed = false, want true")
	}
}

func TestLoad_NotFound(t *testing.T) {
	report := newTestLoader(t, fixtureStore(t)).Load(context.Background(), "missing_room", models.PreviewMode)

	if len(report.Errors) != 1 || report.Errors[0].Rule != RuleRoomNotFound {
		t.Fatalf("Errors = %+v, want one room_not_found", report.Errors)
	}

	if report.Valid || report.CleanedRecord != nil {
		t.Errorf("report = %+v, want invalid with no record", report)
	}

	if report.Strictness != models.StrictnessPreview {
		t.Errorf("Strictness = %q, want preview", report.Strictness)
	}
}

func TestLoad_StoreUnavailable(t *testing.T) {
	store := &memStore{err: errors.New("connection refused")}

	report := newTestLoader(t, store).Load(context.Background(), "calm_start", models.StrictMode)

	if len(report.Errors) != 1 || report.Errors[0].Rule != RuleStoreUnavailable {
		t.Fatalf("Errors = %+v, want one store_unavailable", report.Errors)
	}

	if report.Warnings == nil || report.CrisisFlags == nil {
		t.Error("degenerate report must use empty slices, not nil")
	}
}

func TestLoad_InvalidIDIsNotFound(t *testing.T) {
	dir := t.TempDir()

	report := newTestLoader(t, NewFileStore(dir)).Load(context.Background(), "../etc/passwd", models.StrictMode)

	if len(report.Errors) != 1 || report.Errors[0].Rule != RuleRoomNotFound {
		t.Errorf("Errors = %+v, want room_not_found", report.Errors)
	}
}

func TestLoadMany_PreservesOrder(t *testing.T) {
	store := fixtureStore(t)
	ids := []string{"missing_a", "calm_start", "missing_b", "calm_start"}

	reports := newTestLoader(t, store).LoadMany(context.Background(), ids, models.StrictMode)

	if len(reports) != len(ids) {
		t.Fatalf("got %d reports, want %d", len(reports), len(ids))
	}

	for i, id := range ids {
		found := reports[i].CleanedRecord != nil
		if found != (id == "calm_start") {
			t.Errorf("reports[%d] for %s: found = %v", i, id, found)
		}
	}

	if store.calls != len(ids) {
		t.Errorf("store calls = %d, want %d", store.calls, len(ids))
	}
}

func TestValidateRaw(t *testing.T) {
	l := newTestLoader(t, &memStore{})

	report := l.ValidateRaw(Document{"id": "Bad ID!", "tier": "VIP1"}, models.RelaxedMode)

	if report.CleanedRecord.Tier != "vip1" {
		t.Errorf("Tier = %q, want vip1", report.CleanedRecord.Tier)
	}

	if report.Valid {
		t.Error("Valid = true, want false for a malformed id")
	}
}

func TestLoader_PingWithoutHealthCheck(t *testing.T) {
	if err := newTestLoader(t, fixtureStore(t)).Ping(context.Background()); err != nil {
		t.Errorf("Ping = %v, want nil for a store without a health check", err)
	}
}
