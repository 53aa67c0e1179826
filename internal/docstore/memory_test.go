package docstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreRoundtrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetDocument(ctx, "proposals", "all", []map[string]any{{"id": "p1"}}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	var got []map[string]any
	if err := Load(ctx, store, "proposals", "all", &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "p1" {
		t.Errorf("unexpected document: %v", got)
	}
}

func TestMemoryStoreMissingDocument(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.GetDocument(context.Background(), "users", "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreUpdateMerges(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetDocument(ctx, "users", "u1", map[string]any{"name": "Volt", "points": 10}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}
	if err := store.UpdateDocument(ctx, "users", "u1", map[string]any{"points": 20}); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	var got map[string]any
	if err := Load(ctx, store, "users", "u1", &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got["points"] != float64(20) || got["name"] != "Volt" {
		t.Errorf("merge result: %v", got)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetDocument(ctx, "users", "u1", map[string]any{"name": "Volt"}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	raw, err := store.GetDocument(ctx, "users", "u1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	for i := range raw {
		raw[i] = 'x'
	}

	var got map[string]any
	if err := Load(ctx, store, "users", "u1", &got); err != nil {
		t.Fatalf("stored document was corrupted by caller mutation: %v", err)
	}
	if got["name"] != "Volt" {
		t.Errorf("stored document changed: %v", got)
	}
}
