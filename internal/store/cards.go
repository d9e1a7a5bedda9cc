package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
)

// CardStore persists cards under the owner's collection.
// Every multi-card mutation goes through one atomic Update batch.
type CardStore struct {
	kv     KeyedStore
	logger *slog.Logger
}

// NewCardStore creates a CardStore over the given keyed store.
// If logger is nil, a default logger will be used.
func NewCardStore(kv KeyedStore, logger *slog.Logger) *CardStore {
	// Validate inputs
	if kv == nil {
		panic("kv cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		kv:     kv,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Create saves a new card to the owner's collection.
// Returns validation errors if the card data is invalid.
func (s *CardStore) Create(ctx context.Context, uid domain.UserID, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	if err := s.kv.Set(ctx, CardPath(uid, card.ID), card); err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck", card.DeckPath.String()))
	return nil
}

// Get retrieves a card by its unique ID.
// Returns ErrCardNotFound if the card does not exist.
func (s *CardStore) Get(ctx context.Context, uid domain.UserID, cardID uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	raw, err := s.kv.Get(ctx, CardPath(uid, cardID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	var card domain.Card
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("%w: stored card %s: %w", ErrInvalidEntity, cardID, err)
	}
	return &card, nil
}

// List retrieves every card in the owner's collection. An empty collection
// yields an empty slice, not an error.
func (s *CardStore) List(ctx context.Context, uid domain.UserID) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.kv.Snapshot(ctx, CardsRoot(uid))
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(snapshot))
	for key, raw := range snapshot {
		var card domain.Card
		if err := json.Unmarshal(raw, &card); err != nil {
			return nil, fmt.Errorf("%w: stored card %s: %w", ErrInvalidEntity, key, err)
		}
		cards = append(cards, &card)
	}
	return cards, nil
}

// Save overwrites a card record wholesale. Used by explicit owner edits
// (content, deck path); rating flows use SaveScheduling instead.
func (s *CardStore) Save(ctx context.Context, uid domain.UserID, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}
	return s.kv.Set(ctx, CardPath(uid, card.ID), card)
}

// SaveScheduling writes the outcome of a rating onto the stored card.
// Content fields are taken from the stored copy, never from the session,
// so a rating can only ever change scheduling state. Two devices rating
// the same card concurrently are not reconciled: the last write wins.
func (s *CardStore) SaveScheduling(ctx context.Context, uid domain.UserID, cardID uuid.UUID, state domain.SchedulingState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	card, err := s.Get(ctx, uid, cardID)
	if err != nil {
		return err
	}

	card.Scheduling = state
	if err := s.kv.Set(ctx, CardPath(uid, cardID), card); err != nil {
		log.Error("failed to save scheduling",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return err
	}

	log.Debug("scheduling saved",
		slog.String("card_id", cardID.String()),
		slog.Float64("interval", state.Interval))
	return nil
}

// Delete removes a single card.
// Returns ErrCardNotFound if the card does not exist.
func (s *CardStore) Delete(ctx context.Context, uid domain.UserID, cardID uuid.UUID) error {
	if _, err := s.Get(ctx, uid, cardID); err != nil {
		return err
	}
	return s.kv.Remove(ctx, CardPath(uid, cardID))
}

// BatchSave writes every given card in one atomic batch. Used by move and
// rename cascades; a partial application is never an accepted outcome.
func (s *CardStore) BatchSave(ctx context.Context, uid domain.UserID, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	values := make(map[string]any, len(cards))
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: card %s: %w", ErrInvalidEntity, card.ID, err)
		}
		values[CardPath(uid, card.ID)] = card
	}

	if err := s.kv.Update(ctx, values); err != nil {
		log.Error("failed to batch-save cards",
			slog.String("error", err.Error()),
			slog.Int("count", len(cards)))
		return NewStoreError("card", "batch_save", "atomic batch rejected", err)
	}

	log.Debug("cards batch-saved", slog.Int("count", len(cards)))
	return nil
}

// BatchDelete removes every given card in one atomic batch. Used by folder
// delete cascades.
func (s *CardStore) BatchDelete(ctx context.Context, uid domain.UserID, cardIDs []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cardIDs) == 0 {
		return nil
	}

	values := make(map[string]any, len(cardIDs))
	for _, id := range cardIDs {
		values[CardPath(uid, id)] = nil
	}

	if err := s.kv.Update(ctx, values); err != nil {
		log.Error("failed to batch-delete cards",
			slog.String("error", err.Error()),
			slog.Int("count", len(cardIDs)))
		return NewStoreError("card", "batch_delete", "atomic batch rejected", err)
	}

	log.Debug("cards batch-deleted", slog.Int("count", len(cardIDs)))
	return nil
}
