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

// ProgressStore persists a recipient's private scheduling state for cards
// owned by other users. Records live under the recipient's own root, are
// written only by the recipient, and are never read by the owner.
type ProgressStore struct {
	kv     KeyedStore
	logger *slog.Logger
}

// NewProgressStore creates a ProgressStore over the given keyed store.
// If logger is nil, a default logger will be used.
func NewProgressStore(kv KeyedStore, logger *slog.Logger) *ProgressStore {
	if kv == nil {
		panic("kv cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProgressStore{
		kv:     kv,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Get retrieves the recipient's scheduling state for one of the owner's
// cards. Returns ErrProgressNotFound if the recipient has never rated it;
// callers substitute new-card defaults.
func (s *ProgressStore) Get(ctx context.Context, recipient, owner domain.UserID, cardID uuid.UUID) (domain.SchedulingState, error) {
	raw, err := s.kv.Get(ctx, ProgressPath(recipient, owner, cardID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.SchedulingState{}, ErrProgressNotFound
		}
		return domain.SchedulingState{}, err
	}

	var record domain.SharedProgress
	if err := json.Unmarshal(raw, &record); err != nil {
		return domain.SchedulingState{}, fmt.Errorf("%w: stored progress %s: %w", ErrInvalidEntity, cardID, err)
	}
	return record.Scheduling, nil
}

// Save writes the recipient's scheduling state for one of the owner's
// cards, creating the record lazily on first rating. The persisted record
// carries its own keys so it stays self-describing outside its path.
func (s *ProgressStore) Save(ctx context.Context, recipient, owner domain.UserID, cardID uuid.UUID, state domain.SchedulingState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	record := domain.SharedProgress{
		RecipientID: recipient,
		OwnerID:     owner,
		CardID:      cardID,
		Scheduling:  state,
	}
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	if err := s.kv.Set(ctx, ProgressPath(recipient, owner, cardID), record); err != nil {
		log.Error("failed to save shared progress",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return err
	}

	log.Debug("shared progress saved",
		slog.String("owner_id", string(owner)),
		slog.String("card_id", cardID.String()))
	return nil
}

// ListForOwner retrieves all of the recipient's progress records for one
// owner's cards, keyed by card ID. Never having studied the owner's cards
// yields an empty map, not an error.
func (s *ProgressStore) ListForOwner(ctx context.Context, recipient, owner domain.UserID) (map[uuid.UUID]domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.kv.Snapshot(ctx, ProgressRoot(recipient, owner))
	if err != nil {
		log.Error("failed to list shared progress", slog.String("error", err.Error()))
		return nil, err
	}

	out := make(map[uuid.UUID]domain.SchedulingState, len(snapshot))
	for key, raw := range snapshot {
		cardID, err := uuid.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("%w: progress key %q", ErrInvalidPath, key)
		}
		var record domain.SharedProgress
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("%w: stored progress %s: %w", ErrInvalidEntity, key, err)
		}
		out[cardID] = record.Scheduling
	}
	return out, nil
}
