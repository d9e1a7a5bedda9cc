package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/platform/logger"
	"github.com/decksmith/decksmith/internal/store"
)

// KVStore implements the store.KeyedStore interface using a PostgreSQL
// database as the storage backend. All values live in a single path-keyed
// JSONB table; Update maps onto one transaction.
type KVStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewKVStore creates a new PostgreSQL implementation of the KeyedStore
// interface. It accepts a database connection that should be initialized
// and managed by the caller. If logger is nil, a default logger will be used.
func NewKVStore(db *sql.DB, logger *slog.Logger) *KVStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &KVStore{
		db:     db,
		logger: logger.With(slog.String("component", "kv_store")),
	}
}

// Ensure KVStore implements store.KeyedStore interface
var _ store.KeyedStore = (*KVStore)(nil)

// Get implements store.KeyedStore.Get.
func (s *KVStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var raw json.RawMessage
	query := `SELECT value FROM kv WHERE path = $1`
	err := s.db.QueryRowContext(ctx, query, path).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		log.Error("failed to get value",
			slog.String("error", err.Error()),
			slog.String("path", path))
		return nil, err
	}

	return raw, nil
}

// Set implements store.KeyedStore.Set. The previous value and any
// descendants of the path are replaced wholesale.
func (s *KVStore) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for %s: %w", path, err)
	}

	return RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := removeSubtree(ctx, tx, path); err != nil {
			return err
		}
		return upsert(ctx, tx, path, raw)
	})
}

// Update implements store.KeyedStore.Update. All entries are applied in
// one transaction; either every entry lands or none does. A nil value
// removes the path and its descendants.
func (s *KVStore) Update(ctx context.Context, values map[string]any) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Marshal everything up front so a bad entry aborts before any write.
	type entry struct {
		path string
		raw  json.RawMessage // nil means remove
	}
	prepared := make([]entry, 0, len(values))
	for path, value := range values {
		if value == nil {
			prepared = append(prepared, entry{path: path})
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal value for %s: %w", path, err)
		}
		prepared = append(prepared, entry{path: path, raw: raw})
	}

	// Apply in a stable order so concurrent batches cannot deadlock on
	// row locks.
	sort.Slice(prepared, func(i, j int) bool { return prepared[i].path < prepared[j].path })

	err := RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		for _, e := range prepared {
			if e.raw == nil {
				if err := removeSubtree(ctx, tx, e.path); err != nil {
					return err
				}
				continue
			}
			if err := upsert(ctx, tx, e.path, e.raw); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to apply batch update",
			slog.String("error", err.Error()),
			slog.Int("entries", len(prepared)))
		return err
	}

	log.Debug("batch update applied", slog.Int("entries", len(prepared)))
	return nil
}

// Push implements store.KeyedStore.Push. Keys are random UUIDs; nothing is
// written until the caller does.
func (s *KVStore) Push(ctx context.Context, path string) (string, error) {
	return uuid.New().String(), nil
}

// Remove implements store.KeyedStore.Remove. The path and its descendants
// are cleared; removing an absent path is a no-op.
func (s *KVStore) Remove(ctx context.Context, path string) error {
	return RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return removeSubtree(ctx, tx, path)
	})
}

// Snapshot implements store.KeyedStore.Snapshot.
func (s *KVStore) Snapshot(ctx context.Context, path string) (map[string]json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT path, value FROM kv WHERE path = $1 OR path LIKE $2`
	rows, err := s.db.QueryContext(ctx, query, path, likeSubtree(path))
	if err != nil {
		log.Error("failed to snapshot subtree",
			slog.String("error", err.Error()),
			slog.String("path", path))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]json.RawMessage)
	for rows.Next() {
		var key string
		var raw json.RawMessage
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		rel := ""
		if key != path {
			rel = key[len(path)+1:]
		}
		out[rel] = raw
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// upsert and removeSubtree take DBTX so they run the same against the
// pool or inside a transaction.
func upsert(ctx context.Context, tx DBTX, path string, raw json.RawMessage) error {
	query := `
		INSERT INTO kv (path, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (path) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	_, err := tx.ExecContext(ctx, query, path, raw)
	return err
}

func removeSubtree(ctx context.Context, tx DBTX, path string) error {
	query := `DELETE FROM kv WHERE path = $1 OR path LIKE $2`
	_, err := tx.ExecContext(ctx, query, path, likeSubtree(path))
	return err
}

// likeSubtree builds the LIKE pattern matching strict descendants of path,
// escaping the LIKE metacharacters so paths containing % or _ match
// literally.
func likeSubtree(path string) string {
	escaped := make([]byte, 0, len(path))
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '%', '_', '\\':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, path[i])
	}
	return string(escaped) + "/%"
}
