package store

import (
	"context"
	"encoding/json"
)

// KeyedStore is the remote store collaborator contract. Paths are
// slash-delimited absolute keys; values are JSON-shaped.
//
// Update is the sole atomicity primitive: all given paths are applied
// together or not at all. A nil value in the Update map removes the path,
// so cascading deletes ride the same primitive. Reads carry no ordering
// guarantee relative to one another or to in-flight writes; callers must
// treat ErrNotFound as an empty/default result where a default exists.
type KeyedStore interface {
	// Get retrieves the value at an exact path.
	// Returns ErrNotFound if nothing is stored there.
	Get(ctx context.Context, path string) (json.RawMessage, error)

	// Set writes a single value at the given path, replacing any previous
	// value wholesale.
	Set(ctx context.Context, path string, value any) error

	// Update applies a batch of absolute-path writes atomically.
	// A nil map value removes the path. Either every entry is applied or
	// none is; a partial application is never an accepted outcome.
	Update(ctx context.Context, values map[string]any) error

	// Push generates a globally unique child key under path without
	// writing anything. The caller writes the child in a follow-up Set or
	// Update, typically batched with related records.
	Push(ctx context.Context, path string) (string, error)

	// Remove deletes the value at an exact path. Removing an absent path
	// is a no-op, not an error.
	Remove(ctx context.Context, path string) error

	// Snapshot returns every value stored at or below path, keyed by the
	// path remainder relative to it (the empty string for path itself).
	// An empty map, not an error, means nothing is stored there. This is
	// the subtree form of Get; the reads behind it carry no ordering
	// guarantee.
	Snapshot(ctx context.Context, path string) (map[string]json.RawMessage, error)
}
