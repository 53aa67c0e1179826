package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundtrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	ctx := context.Background()
	doc := map[string]any{"name": "Echo", "points": float64(50)}

	if err := store.SetDocument(ctx, "local", "current_user", doc); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	var got map[string]any
	if err := Load(ctx, store, "local", "current_user", &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got["name"] != "Echo" || got["points"] != float64(50) {
		t.Errorf("unexpected document: %v", got)
	}
}

func TestFileStoreMissingDocument(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	_, err = store.GetDocument(context.Background(), "local", "nothing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	err = store.UpdateDocument(context.Background(), "local", "nothing", map[string]any{"a": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
}

func TestFileStoreUpdateMerges(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	ctx := context.Background()
	if err := store.SetDocument(ctx, "users", "u1", map[string]any{"name": "Echo", "rank": 3}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}
	if err := store.UpdateDocument(ctx, "users", "u1", map[string]any{"name": "Hex"}); err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	var got map[string]any
	if err := Load(ctx, store, "users", "u1", &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got["name"] != "Hex" || got["rank"] != float64(3) {
		t.Errorf("merge lost fields: %v", got)
	}
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if err := store.SetDocument(ctx, "local", "current_teams", map[string]any{"n": i}); err != nil {
			t.Fatalf("SetDocument failed: %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(dir, "local"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".tmp" {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected a single document file, found %d entries", len(entries))
	}
}
