package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/blogforge/internal/db"
	"github.com/ziadkadry99/blogforge/internal/generator"
)

var _ generator.Tracker = (*Store)(nil)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestTrackAndQuery(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Track(ctx, GenerationStarted, map[string]any{"tone": "casual", "length": "500"}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if err := store.Track(ctx, GenerationCompleted, map[string]any{"words": 480}); err != nil {
		t.Fatalf("Track: %v", err)
	}

	got, err := store.Query(ctx, Filter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first.
	if got[0].Name != GenerationCompleted || got[1].Name != GenerationStarted {
		t.Errorf("order = %s, %s", got[0].Name, got[1].Name)
	}
	if got[0].ID == "" {
		t.Error("expected generated ID")
	}
	if got[0].Data["words"] != float64(480) {
		t.Errorf("data = %v", got[0].Data)
	}
	if got[1].Data["tone"] != "casual" {
		t.Errorf("data = %v", got[1].Data)
	}
}

func TestTrackNilData(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.Track(ctx, OutputCleared, nil); err != nil {
		t.Fatalf("Track: %v", err)
	}
	got, err := store.Query(ctx, Filter{Name: OutputCleared})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || len(got[0].Data) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestTrackRequiresName(t *testing.T) {
	store := setupStore(t)
	if err := store.Track(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestQueryFilters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	old := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, ev := range []Event{
		{Name: GenerationStarted, Timestamp: old},
		{Name: GenerationFailed, Timestamp: old},
		{Name: GenerationStarted, Timestamp: recent},
		{Name: ContentCopied, Timestamp: recent},
	} {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log #%d: %v", i, err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 4},
		{"by name", Filter{Name: GenerationStarted}, 2},
		{"since", Filter{Since: &recent}, 2},
		{"name and since", Filter{Name: GenerationStarted, Since: &recent}, 1},
		{"limit", Filter{Limit: 3}, 3},
		{"no match", Filter{Name: ThemeToggled}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestDeleteBefore(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.Log(ctx, Event{Name: GenerationStarted, Timestamp: old})
	store.Log(ctx, Event{Name: GenerationStarted, Timestamp: old.Add(48 * time.Hour)})

	n, err := store.DeleteBefore(ctx, old.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	left, _ := store.Query(ctx, Filter{})
	if len(left) != 1 {
		t.Errorf("remaining %d, want 1", len(left))
	}
}

func TestCounts(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, name := range []string{GenerationStarted, GenerationStarted, GenerationStopped} {
		store.Track(ctx, name, nil)
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[GenerationStarted] != 2 || counts[GenerationStopped] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestRoutes(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	store.Track(ctx, GenerationStarted, map[string]any{"tone": "formal"})
	store.Track(ctx, ThemeToggled, map[string]any{"theme": "dark"})

	r := chi.NewRouter()
	RegisterRoutes(r, store)

	req := httptest.NewRequest(http.MethodGet, "/api/events/?name="+ThemeToggled, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var evs []Event
	if err := json.NewDecoder(rec.Body).Decode(&evs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(evs) != 1 || evs[0].Data["theme"] != "dark" {
		t.Errorf("events = %+v", evs)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events/counts", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var counts map[string]int
	json.NewDecoder(rec.Body).Decode(&counts)
	if counts[GenerationStarted] != 1 {
		t.Errorf("counts = %v", counts)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events/?since=yesterday", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad since: status = %d, want 400", rec.Code)
	}
}
