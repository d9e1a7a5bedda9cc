// Package memstore provides an in-memory implementation of the keyed store
// contract. It backs tests and local development; the semantics (exact-path
// values, atomic multi-path batches, subtree snapshots and removals) mirror
// what the remote store guarantees.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/store"
)

// Store is a mutex-guarded flat map of absolute paths to JSON values.
type Store struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

// Ensure Store implements store.KeyedStore interface
var _ store.KeyedStore = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		values: make(map[string]json.RawMessage),
	}
}

// Get implements store.KeyedStore.Get.
func (s *Store) Get(ctx context.Context, path string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.values[path]
	if !ok {
		return nil, store.ErrNotFound
	}
	// Hand out a copy so callers never alias internal state.
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, nil
}

// Set implements store.KeyedStore.Set. The previous value and any
// descendants of the path are replaced wholesale.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeSubtreeLocked(path)
	s.values[path] = raw
	return nil
}

// Update implements store.KeyedStore.Update. All values are marshaled
// before any is applied, so a bad entry leaves the store untouched and the
// batch is all-or-nothing.
func (s *Store) Update(ctx context.Context, values map[string]any) error {
	prepared := make(map[string]json.RawMessage, len(values))
	for path, value := range values {
		if value == nil {
			prepared[path] = nil
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal value for %s: %w", path, err)
		}
		prepared[path] = raw
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for path, raw := range prepared {
		if raw == nil {
			s.removeSubtreeLocked(path)
			continue
		}
		s.values[path] = raw
	}
	return nil
}

// Push implements store.KeyedStore.Push. Keys are random UUIDs; nothing is
// written until the caller does.
func (s *Store) Push(ctx context.Context, path string) (string, error) {
	return uuid.New().String(), nil
}

// Remove implements store.KeyedStore.Remove. The path and its descendants
// are cleared; removing an absent path is a no-op.
func (s *Store) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeSubtreeLocked(path)
	return nil
}

// Snapshot implements store.KeyedStore.Snapshot.
func (s *Store) Snapshot(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]json.RawMessage)
	prefix := path + "/"
	for key, raw := range s.values {
		var rel string
		switch {
		case key == path:
			rel = ""
		case strings.HasPrefix(key, prefix):
			rel = key[len(prefix):]
		default:
			continue
		}
		cp := make(json.RawMessage, len(raw))
		copy(cp, raw)
		out[rel] = cp
	}
	return out, nil
}

// Len reports the number of stored values. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *Store) removeSubtreeLocked(path string) {
	delete(s.values, path)
	prefix := path + "/"
	for key := range s.values {
		if strings.HasPrefix(key, prefix) {
			delete(s.values, key)
		}
	}
}
