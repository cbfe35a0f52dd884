// Package draft persists the in-progress invoice and saves it after edits go
// quiet.
package draft

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/rezonia/invoice-composer/internal/document"
	"github.com/rezonia/invoice-composer/internal/model"
)

// Store is a string-keyed blob store. Load returns model.ErrDraftNotFound
// when nothing is stored under key.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps drafts in process memory
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Load implements Store
func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[key]
	if !ok {
		return nil, model.ErrDraftNotFound
	}
	return bytes.Clone(data), nil
}

// Save implements Store
func (m *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	m.data[key] = bytes.Clone(data)
	m.mu.Unlock()
	return nil
}

// Delete implements Store
func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// LoadSnapshot reads and decodes the draft under document.DraftKey. ok is
// false when there is nothing usable to restore; err then explains why,
// except for a plainly absent draft where it is nil.
func LoadSnapshot(ctx context.Context, store Store) (s model.Snapshot, ok bool, err error) {
	data, err := store.Load(ctx, document.DraftKey)
	if errors.Is(err, model.ErrDraftNotFound) {
		return model.Snapshot{}, false, nil
	}
	if err != nil {
		return model.Snapshot{}, false, model.NewDraftError(document.DraftKey, "load failed", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return model.Snapshot{}, false, nil
	}

	s, err = document.Decode(trimmed)
	if err != nil {
		return model.Snapshot{}, false, err
	}
	return s, true, nil
}

// SaveSnapshot encodes s and stores it under document.DraftKey
func SaveSnapshot(ctx context.Context, store Store, s model.Snapshot) error {
	data, err := document.Encode(s)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, document.DraftKey, data); err != nil {
		return model.NewDraftError(document.DraftKey, "save failed", err)
	}
	return nil
}
