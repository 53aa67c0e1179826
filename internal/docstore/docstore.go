// Package docstore provides the document-store boundary: keyed JSON records
// grouped into collections, with redis, postgres, file and in-memory
// backends.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a collection has no document under the key.
var ErrNotFound = errors.New("document not found")

// Store reads and writes JSON documents. Keys for the "users" collection are
// provider-issued ids.
type Store interface {
	// GetDocument returns the raw document, or ErrNotFound.
	GetDocument(ctx context.Context, collection, key string) (json.RawMessage, error)
	// SetDocument marshals doc and replaces whatever is stored under the key.
	SetDocument(ctx context.Context, collection, key string, doc any) error
	// UpdateDocument overlays the given fields onto an existing document.
	// Returns ErrNotFound when there is nothing to update.
	UpdateDocument(ctx context.Context, collection, key string, fields map[string]any) error
	Ping(ctx context.Context) error
	Close() error
}

// Load fetches a document and unmarshals it into v.
func Load(ctx context.Context, s Store, collection, key string, v any) error {
	raw, err := s.GetDocument(ctx, collection, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, key, err)
	}
	return nil
}

// mergeDocument overlays fields onto the raw JSON object and re-marshals it.
// Shared by the backends that cannot merge server-side.
func mergeDocument(raw json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode merged document: %w", err)
	}
	return merged, nil
}
