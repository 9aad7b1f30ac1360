// Package store is the durable key/value layer the grocery state is flushed
// to. Each key holds one JSON document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/idilsaglam/grocery/internal/apperr"
)

// Keys of the persisted entries.
const (
	KeySavedLists           = "grocerySavedLists"
	KeyPreviousItems        = "groceryPreviousItems"
	KeyPreviousPreparations = "groceryPreviousPreparations"
	KeyCurrentList          = "groceryCurrentList"
)

// ErrNoKey is returned by Get for a key that was never written.
var ErrNoKey = errors.New("key not found")

// Store maps keys to raw JSON blobs.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// LoadJSON decodes key into v. A missing key leaves v untouched and reports
// false. Every other failure comes back as a *apperr.PersistenceError.
func LoadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	b, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNoKey) {
			return false, nil
		}
		return false, &apperr.PersistenceError{Op: "read", Key: key, Err: err}
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, &apperr.PersistenceError{Op: "read", Key: key, Err: err}
	}
	return true, nil
}

// SaveJSON encodes v under key.
func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &apperr.PersistenceError{Op: "write", Key: key, Err: err}
	}
	if err := s.Put(ctx, key, b); err != nil {
		return &apperr.PersistenceError{Op: "write", Key: key, Err: err}
	}
	return nil
}

// Memory is a process-local Store. Used by tests and by --ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrNoKey
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := make([]byte, len(value))
	copy(b, value)
	m.data[key] = b
	return nil
}

func (m *Memory) Close() error { return nil }
