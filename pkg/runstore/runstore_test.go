package runstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	run, err := New("graph-1", "width", map[string]int{"width": 3}, time.Hour)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if run.ID == "" {
		t.Error("New should assign an ID")
	}
	if run.GraphID != "graph-1" {
		t.Errorf("GraphID = %q, want %q", run.GraphID, "graph-1")
	}
	if run.Operation != "width" {
		t.Errorf("Operation = %q, want %q", run.Operation, "width")
	}
	if run.IsExpired() {
		t.Error("fresh run should not be expired")
	}

	var payload map[string]int
	if err := json.Unmarshal(run.Payload, &payload); err != nil {
		t.Fatalf("payload unmarshal: %v", err)
	}
	if payload["width"] != 3 {
		t.Errorf("payload width = %d, want 3", payload["width"])
	}

	// IDs are unique
	other, _ := New("graph-1", "width", nil, time.Hour)
	if other.ID == run.ID {
		t.Error("New should assign distinct IDs")
	}
}

// storeTest exercises the Store contract against a backend.
func storeTest(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	// Missing run
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}

	// Roundtrip
	run, _ := New("graph-1", "width", map[string]int{"width": 3}, time.Hour)
	if err := store.Set(ctx, run); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.GraphID != run.GraphID || got.Operation != run.Operation {
		t.Errorf("Get = %+v, want %+v", got, run)
	}

	// Expired run
	stale, _ := New("graph-1", "width", nil, -time.Hour)
	if err := store.Set(ctx, stale); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, err := store.Get(ctx, stale.ID); !errors.Is(err, ErrExpired) {
		t.Errorf("Get expired = %v, want ErrExpired", err)
	}

	// Cleanup removes expired runs but keeps fresh ones
	stale2, _ := New("graph-2", "safety", nil, -time.Hour)
	if err := store.Set(ctx, stale2); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup error: %v", err)
	}
	if _, err := store.Get(ctx, stale2.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Cleanup = %v, want ErrNotFound", err)
	}
	if _, err := store.Get(ctx, run.ID); err != nil {
		t.Errorf("fresh run should survive Cleanup: %v", err)
	}

	// Delete
	if err := store.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := store.Get(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}

	// Deleting a missing run is not an error
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing error: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close(context.Background())
	storeTest(t, store)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	defer store.Close(context.Background())
	storeTest(t, store)
}

func TestFileStorePath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if store.Path() != dir {
		t.Errorf("Path() = %q, want %q", store.Path(), dir)
	}
}
