package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, s
}

func TestNewRedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	store, err := NewRedisStore("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestRedisSetAndGetDocument(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	doc := map[string]any{"name": "Vex", "points": float64(100)}

	if err := store.SetDocument(ctx, "users", "op-1", doc); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	raw, err := store.GetDocument(ctx, "users", "op-1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("stored document is not valid JSON: %v", err)
	}
	if got["name"] != "Vex" || got["points"] != float64(100) {
		t.Errorf("unexpected document: %v", got)
	}
}

func TestRedisGetMissingDocument(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	_, err := store.GetDocument(context.Background(), "users", "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisUpdateDocumentMerges(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SetDocument(ctx, "users", "op-1", map[string]any{"name": "Vex", "points": 100, "rank": 7}); err != nil {
		t.Fatalf("SetDocument failed: %v", err)
	}

	err := store.UpdateDocument(ctx, "users", "op-1", map[string]any{"name": "Nyx", "themeColor": "blue"})
	if err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}

	var got map[string]any
	if err := Load(ctx, store, "users", "op-1", &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got["name"] != "Nyx" {
		t.Errorf("expected name overwritten, got %v", got["name"])
	}
	if got["themeColor"] != "blue" {
		t.Errorf("expected themeColor added, got %v", got["themeColor"])
	}
	if got["points"] != float64(100) || got["rank"] != float64(7) {
		t.Errorf("untouched fields must survive the merge: %v", got)
	}
}

func TestRedisUpdateMissingDocument(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	err := store.UpdateDocument(context.Background(), "users", "nobody", map[string]any{"name": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisCollectionIsolation(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	if err := store.SetDocument(ctx, "users", "k", map[string]any{"kind": "user"}); err != nil {
		t.Fatalf("SetDocument users failed: %v", err)
	}
	if err := store.SetDocument(ctx, "teams", "k", map[string]any{"kind": "team"}); err != nil {
		t.Fatalf("SetDocument teams failed: %v", err)
	}

	var user, team map[string]any
	if err := Load(ctx, store, "users", "k", &user); err != nil {
		t.Fatalf("Load users failed: %v", err)
	}
	if err := Load(ctx, store, "teams", "k", &team); err != nil {
		t.Fatalf("Load teams failed: %v", err)
	}
	if user["kind"] != "user" || team["kind"] != "team" {
		t.Errorf("collections must not share a keyspace: %v / %v", user, team)
	}
}
