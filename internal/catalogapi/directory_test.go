package catalogapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cardstash/internal/storage"
)

// memoryState is an in-memory StateStore for directory tests.
type memoryState struct {
	values map[string]string
}

func newMemoryState() *memoryState {
	return &memoryState{values: make(map[string]string)}
}

func (m *memoryState) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (m *memoryState) Set(ctx context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memoryState) seed(t *testing.T, fetchedAt time.Time, entries []DirectoryEntry) {
	t.Helper()
	raw, err := json.Marshal(persistedDirectory{FetchedAt: fetchedAt, Entries: entries})
	if err != nil {
		t.Fatal(err)
	}
	m.values[directoryStateKey] = string(raw)
}

func TestSetDirectory_FreshPersistedWins(t *testing.T) {
	// The server must never be hit while the persisted copy is fresh.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected fetch while persisted directory is fresh")
	}))
	defer server.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := newMemoryState()
	state.seed(t, now.Add(-time.Hour), []DirectoryEntry{{Code: "LEA", Name: "Alpha"}})

	d := NewSetDirectory(NewClient(server.URL, ""), state, 24*time.Hour)
	d.now = func() time.Time { return now }

	entries := d.Entries(context.Background())
	if len(entries) != 1 || entries[0].Code != "LEA" {
		t.Errorf("Entries() = %v, want persisted copy", entries)
	}
}

func TestSetDirectory_StaleTriggersFetchAndPersist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sets":[{"code":"NEO","name":"Kamigawa: Neon Dynasty"}]}`))
	}))
	defer server.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := newMemoryState()
	state.seed(t, now.Add(-48*time.Hour), []DirectoryEntry{{Code: "LEA", Name: "Alpha"}})

	d := NewSetDirectory(NewClient(server.URL, ""), state, 24*time.Hour)
	d.now = func() time.Time { return now }

	entries := d.Entries(context.Background())
	if len(entries) != 1 || entries[0].Code != "NEO" {
		t.Errorf("Entries() = %v, want fetched copy", entries)
	}

	// The fetch result is persisted and fresh for the next call.
	var p persistedDirectory
	if err := json.Unmarshal([]byte(state.values[directoryStateKey]), &p); err != nil {
		t.Fatalf("persisted value invalid: %v", err)
	}
	if !p.FetchedAt.Equal(now) || len(p.Entries) != 1 {
		t.Errorf("persisted = %+v", p)
	}
}

func TestSetDirectory_FetchFailureFallsBackToStale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := newMemoryState()
	state.seed(t, now.Add(-48*time.Hour), []DirectoryEntry{{Code: "LEA", Name: "Alpha"}})

	d := NewSetDirectory(NewClient(server.URL, ""), state, 24*time.Hour)
	d.now = func() time.Time { return now }

	entries := d.Entries(context.Background())
	if len(entries) != 1 || entries[0].Code != "LEA" {
		t.Errorf("Entries() = %v, want stale persisted copy", entries)
	}
}

func TestSetDirectory_StaticFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer server.Close()

	// Nothing persisted, fetch failing: the static table is the last resort.
	d := NewSetDirectory(NewClient(server.URL, ""), newMemoryState(), 24*time.Hour)

	entries := d.Entries(context.Background())
	if len(entries) == 0 {
		t.Fatal("Entries() = empty, want static fallback")
	}
	found := false
	for _, e := range entries {
		if e.Code == "LEA" {
			found = true
		}
	}
	if !found {
		t.Errorf("static fallback missing LEA: %v", entries)
	}
}
