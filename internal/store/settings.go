package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
)

// DeckConfigStore persists per-deck scheduling rules. Configs are always
// saved wholesale; there is no partial update.
type DeckConfigStore struct {
	kv     KeyedStore
	logger *slog.Logger
}

// NewDeckConfigStore creates a DeckConfigStore over the given keyed store.
// If logger is nil, a default logger will be used.
func NewDeckConfigStore(kv KeyedStore, logger *slog.Logger) *DeckConfigStore {
	if kv == nil {
		panic("kv cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckConfigStore{
		kv:     kv,
		logger: logger.With(slog.String("component", "deck_config_store")),
	}
}

// Save overwrites the deck's configuration.
func (s *DeckConfigStore) Save(ctx context.Context, uid domain.UserID, deckPath domain.DeckPath, cfg domain.DeckConfig) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	if err := deckPath.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	if err := s.kv.Set(ctx, SettingsPath(uid, deckPath), cfg); err != nil {
		log.Error("failed to save deck config",
			slog.String("error", err.Error()),
			slog.String("deck", deckPath.String()))
		return err
	}

	log.Debug("deck config saved", slog.String("deck", deckPath.String()))
	return nil
}

// Get retrieves the deck's saved configuration.
// Returns ErrConfigNotFound if none was ever saved.
func (s *DeckConfigStore) Get(ctx context.Context, uid domain.UserID, deckPath domain.DeckPath) (domain.DeckConfig, error) {
	raw, err := s.kv.Get(ctx, SettingsPath(uid, deckPath))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.DeckConfig{}, ErrConfigNotFound
		}
		return domain.DeckConfig{}, err
	}

	var cfg domain.DeckConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.DeckConfig{}, fmt.Errorf("%w: stored deck config: %w", ErrInvalidEntity, err)
	}
	return cfg, nil
}

// GetOrDefault retrieves the deck's configuration, substituting the
// documented defaults when none is saved. Only genuine store failures
// surface as errors.
func (s *DeckConfigStore) GetOrDefault(ctx context.Context, uid domain.UserID, deckPath domain.DeckPath) (domain.DeckConfig, error) {
	cfg, err := s.Get(ctx, uid, deckPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.DefaultDeckConfig(), nil
		}
		return domain.DeckConfig{}, err
	}
	return cfg, nil
}
