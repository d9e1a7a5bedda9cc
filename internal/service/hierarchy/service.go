// Package hierarchy implements the deck tree over delimited card paths:
// browsable groupings, move/rename/delete cascades with cycle prevention,
// and the selection tree for move-target dialogs. All cascades are single
// atomic batches; a partial application is never an accepted outcome.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
)

// Validation errors, detected before any remote call.
var (
	// ErrSamePath is returned when a move targets the source path itself.
	ErrSamePath = errors.New("move target equals the source path")

	// ErrCyclicMove is returned when a move targets a descendant of the source.
	ErrCyclicMove = errors.New("move target is a descendant of the source path")

	// ErrEmptyName is returned when a rename is given an empty segment.
	ErrEmptyName = errors.New("deck name cannot be empty")
)

// CardRepository is the persistence surface the hierarchy engine needs.
// Implemented by store.CardStore.
type CardRepository interface {
	List(ctx context.Context, uid domain.UserID) ([]*domain.Card, error)
	BatchSave(ctx context.Context, uid domain.UserID, cards []*domain.Card) error
	BatchDelete(ctx context.Context, uid domain.UserID, cardIDs []uuid.UUID) error
}

// Service reorganizes a user's collection. It is invoked outside study
// sessions; grouping and cascades operate on the owner's own cards only.
type Service struct {
	cards  CardRepository
	logger *slog.Logger
}

// NewService creates a hierarchy service.
func NewService(cards CardRepository, logger *slog.Logger) *Service {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cards:  cards,
		logger: logger.With(slog.String("component", "hierarchy_service")),
	}
}

// Children lists the child groups under currentPrefix with their counts.
func (s *Service) Children(ctx context.Context, uid domain.UserID, currentPrefix domain.DeckPath, now time.Time) (map[string]*Group, error) {
	cards, err := s.cards.List(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return GroupChildren(cards, currentPrefix, now), nil
}

// Tree builds the full selection tree, marking valid move targets
// relative to current.
func (s *Service) Tree(ctx context.Context, uid domain.UserID, current domain.DeckPath) (*TreeNode, error) {
	cards, err := s.cards.List(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return BuildTree(cards, current), nil
}

// Move relocates the subtree at oldPrefix to newPrefix. Every affected
// card is rewritten in one atomic batch. Returns the number of cards
// moved; zero means the prefix matched nothing and the move was a no-op.
//
// A move is rejected before any remote call when the target equals the
// source or descends from it; accepting either would detach the subtree
// into itself.
func (s *Service) Move(ctx context.Context, uid domain.UserID, oldPrefix, newPrefix domain.DeckPath) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := oldPrefix.Validate(); err != nil {
		return 0, err
	}
	if err := newPrefix.Validate(); err != nil {
		return 0, err
	}
	if newPrefix.Equal(oldPrefix) {
		return 0, ErrSamePath
	}
	if newPrefix.IsDescendantOf(oldPrefix) {
		return 0, ErrCyclicMove
	}

	cards, err := s.cards.List(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("failed to list cards: %w", err)
	}

	affected := buildIndex(cards).subtree(oldPrefix)
	if len(affected) == 0 {
		log.Debug("move matched no cards", slog.String("old", oldPrefix.String()))
		return 0, nil
	}

	moved := make([]*domain.Card, 0, len(affected))
	for _, card := range affected {
		updated := card.Clone()
		updated.DeckPath = card.DeckPath.Rebase(oldPrefix, newPrefix)
		moved = append(moved, updated)
	}

	if err := s.cards.BatchSave(ctx, uid, moved); err != nil {
		return 0, fmt.Errorf("failed to apply move cascade: %w", err)
	}

	log.Info("deck moved",
		slog.String("old", oldPrefix.String()),
		slog.String("new", newPrefix.String()),
		slog.Int("cards", len(moved)))
	return len(moved), nil
}

// Rename changes the last segment of path, keeping its position in the
// tree. Implemented as a move to the parent plus the new segment.
func (s *Service) Rename(ctx context.Context, uid domain.UserID, path domain.DeckPath, newLastSegment string) (int, error) {
	if newLastSegment == "" {
		return 0, ErrEmptyName
	}

	target := path.Parent().Child(newLastSegment)
	if err := target.Validate(); err != nil {
		return 0, err
	}

	return s.Move(ctx, uid, path, target)
}

// Delete removes every card at or below prefix in one atomic batch.
// Returns the number of cards removed so callers can tell an absent
// prefix (zero) from a real cascade.
func (s *Service) Delete(ctx context.Context, uid domain.UserID, prefix domain.DeckPath) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := prefix.Validate(); err != nil {
		return 0, err
	}

	cards, err := s.cards.List(ctx, uid)
	if err != nil {
		return 0, fmt.Errorf("failed to list cards: %w", err)
	}

	affected := buildIndex(cards).subtree(prefix)
	if len(affected) == 0 {
		log.Debug("delete matched no cards", slog.String("prefix", prefix.String()))
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(affected))
	for _, card := range affected {
		ids = append(ids, card.ID)
	}

	if err := s.cards.BatchDelete(ctx, uid, ids); err != nil {
		return 0, fmt.Errorf("failed to apply delete cascade: %w", err)
	}

	log.Info("deck deleted",
		slog.String("prefix", prefix.String()),
		slog.Int("cards", len(ids)))
	return len(ids), nil
}
