package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists documents as JSON files under a state directory, one
// subdirectory per collection. It backs the local variant of the console:
// the "local" collection holds the current_user and current_teams snapshots
// read once at startup and rewritten on every mutation.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(collection, key string) string {
	return filepath.Join(s.dir, collection, key+".json")
}

func (s *FileStore) GetDocument(_ context.Context, collection, key string) (json.RawMessage, error) {
	raw, err := os.ReadFile(s.path(collection, key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s/%s: %w", collection, key, err)
	}
	return raw, nil
}

func (s *FileStore) SetDocument(_ context.Context, collection, key string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return s.write(collection, key, raw)
}

func (s *FileStore) UpdateDocument(ctx context.Context, collection, key string, fields map[string]any) error {
	raw, err := s.GetDocument(ctx, collection, key)
	if err != nil {
		return err
	}
	merged, err := mergeDocument(raw, fields)
	if err != nil {
		return err
	}
	return s.write(collection, key, []byte(merged))
}

// write lands the document atomically: temp file then rename.
func (s *FileStore) write(collection, key string, raw []byte) error {
	path := s.path(collection, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create collection dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document %s/%s: %w", collection, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document %s/%s: %w", collection, key, err)
	}
	return nil
}

func (s *FileStore) Ping(context.Context) error {
	_, err := os.Stat(s.dir)
	return err
}

func (s *FileStore) Close() error { return nil }
