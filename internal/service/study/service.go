package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/domain/srs"
	"github.com/decksmith/decksmith/internal/platform/logger"
)

// CardRepository is the persistence surface local sessions need.
// Implemented by store.CardStore.
type CardRepository interface {
	List(ctx context.Context, uid domain.UserID) ([]*domain.Card, error)
	SaveScheduling(ctx context.Context, uid domain.UserID, cardID uuid.UUID, state domain.SchedulingState) error
}

// DeckConfigProvider resolves the step configuration for a deck, falling
// back to defaults when none is saved. Implemented by
// store.DeckConfigStore.
type DeckConfigProvider interface {
	GetOrDefault(ctx context.Context, uid domain.UserID, deckPath domain.DeckPath) (domain.DeckConfig, error)
}

// ProgressSaver persists a recipient's private scheduling record.
// Implemented by store.ProgressStore.
type ProgressSaver interface {
	Save(ctx context.Context, recipient, owner domain.UserID, cardID uuid.UUID, state domain.SchedulingState) error
}

// MergedDeckProvider produces the recipient's merged view of a shared
// deck. Implemented by sharing.Service.
type MergedDeckProvider interface {
	MergeForStudy(ctx context.Context, owner, recipient domain.UserID, deckPath domain.DeckPath, now time.Time) ([]*domain.Card, error)
}

// RatingResult reports the outcome of rating the current card.
type RatingResult struct {
	CardID    uuid.UUID              `json:"card_id"`
	State     domain.SchedulingState `json:"state"`
	Remaining int                    `json:"remaining"`
	Complete  bool                   `json:"complete"`
}

// Service runs study sessions over local and shared decks.
type Service struct {
	cards     CardRepository
	configs   DeckConfigProvider
	progress  ProgressSaver
	merger    MergedDeckProvider
	scheduler srs.Service
	sessions  *sessionRegistry
	logger    *slog.Logger
}

// NewService creates a study service.
func NewService(
	cards CardRepository,
	configs DeckConfigProvider,
	progress ProgressSaver,
	merger MergedDeckProvider,
	scheduler srs.Service,
	logger *slog.Logger,
) *Service {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if configs == nil {
		panic("configs cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}
	if merger == nil {
		panic("merger cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cards:     cards,
		configs:   configs,
		progress:  progress,
		merger:    merger,
		scheduler: scheduler,
		sessions:  newSessionRegistry(),
		logger:    logger.With(slog.String("component", "study_service")),
	}
}

// StartSession opens a local session over the user's own cards at or
// below deckPath. An empty deckPath studies the whole collection.
func (s *Service) StartSession(ctx context.Context, uid domain.UserID, deckPath domain.DeckPath, cramming bool, now time.Time) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cards.List(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}

	scoped := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		if card.DeckPath.HasPrefix(deckPath) {
			scoped = append(scoped, card)
		}
	}

	session := &Session{
		ID:        uuid.New(),
		Mode:      ModeLocal,
		UserID:    uid,
		OwnerID:   uid,
		DeckPath:  deckPath.Clone(),
		Cramming:  cramming,
		Queue:     BuildQueue(scoped, now, cramming),
		StartedAt: now,
	}
	s.sessions.add(session)

	log.Info("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("mode", string(ModeLocal)),
		slog.Int("cards", session.Queue.Len()))
	return session, nil
}

// StartSharedSession opens a session over a deck shared by owner, using
// the merged view: owner content, recipient progress.
func (s *Service) StartSharedSession(ctx context.Context, recipient, owner domain.UserID, deckPath domain.DeckPath, cramming bool, now time.Time) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	merged, err := s.merger.MergeForStudy(ctx, owner, recipient, deckPath, now)
	if err != nil {
		return nil, fmt.Errorf("failed to merge shared deck: %w", err)
	}

	session := &Session{
		ID:        uuid.New(),
		Mode:      ModeShared,
		UserID:    recipient,
		OwnerID:   owner,
		DeckPath:  deckPath.Clone(),
		Cramming:  cramming,
		Queue:     BuildQueue(merged, now, cramming),
		StartedAt: now,
	}
	s.sessions.add(session)

	log.Info("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("mode", string(ModeShared)),
		slog.Int("cards", session.Queue.Len()))
	return session, nil
}

// Current returns the card under the session's cursor.
func (s *Service) Current(sessionID uuid.UUID, uid domain.UserID) (*domain.Card, error) {
	session, err := s.session(sessionID, uid)
	if err != nil {
		return nil, err
	}
	return session.Queue.Current()
}

// session looks up a live session and checks it belongs to uid. A session
// owned by someone else is indistinguishable from a missing one, so a
// leaked session ID reveals nothing across users.
func (s *Service) session(sessionID uuid.UUID, uid domain.UserID) (*Session, error) {
	session, err := s.sessions.get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != uid {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// RateCard applies the rating to the current card, persists the resulting
// scheduling state, and advances the session. Local sessions write the
// card's own scheduling; shared sessions write only the recipient's
// private progress record. A completed session is removed from the
// registry.
func (s *Service) RateCard(ctx context.Context, sessionID uuid.UUID, uid domain.UserID, rating domain.Rating, now time.Time) (*RatingResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.session(sessionID, uid)
	if err != nil {
		return nil, err
	}

	card, err := session.Queue.Current()
	if err != nil {
		return nil, err
	}

	cfg, err := s.configs.GetOrDefault(ctx, session.OwnerID, card.DeckPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve deck config: %w", err)
	}

	state, err := s.scheduler.CalculateNextReview(card.Scheduling, rating, cfg, now)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, session, card.ID, state); err != nil {
		return nil, err
	}

	card.Scheduling = state
	complete := session.Queue.Advance()
	if complete {
		s.sessions.remove(session.ID)
		log.Info("session complete", slog.String("session_id", session.ID.String()))
	}

	return &RatingResult{
		CardID:    card.ID,
		State:     state,
		Remaining: session.Queue.Remaining(),
		Complete:  complete,
	}, nil
}

// Skip passes over the current card. With more than one card remaining it
// moves the card to the tail and the cursor lands on the next one, with
// no write at all. With a single card remaining the skip is terminal: the
// card's next review is pushed out by five minutes, the deferral is
// persisted, and the session ends.
func (s *Service) Skip(ctx context.Context, sessionID uuid.UUID, uid domain.UserID) (*RatingResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.session(sessionID, uid)
	if err != nil {
		return nil, err
	}

	card, err := session.Queue.Current()
	if err != nil {
		return nil, err
	}

	if session.Queue.Remaining() > 1 {
		if err := session.Queue.Rotate(); err != nil {
			return nil, err
		}
		return &RatingResult{
			CardID:    card.ID,
			State:     card.Scheduling,
			Remaining: session.Queue.Remaining(),
		}, nil
	}

	state, err := s.scheduler.DeferReview(card.Scheduling, skipDeferral)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, session, card.ID, state); err != nil {
		return nil, err
	}

	card.Scheduling = state
	s.sessions.remove(session.ID)
	log.Info("session ended by terminal skip", slog.String("session_id", session.ID.String()))

	return &RatingResult{
		CardID:   card.ID,
		State:    state,
		Complete: true,
	}, nil
}

// Abandon discards the session without writing anything.
func (s *Service) Abandon(sessionID uuid.UUID, uid domain.UserID) error {
	if _, err := s.session(sessionID, uid); err != nil {
		return err
	}
	s.sessions.remove(sessionID)
	return nil
}

func (s *Service) persist(ctx context.Context, session *Session, cardID uuid.UUID, state domain.SchedulingState) error {
	switch session.Mode {
	case ModeShared:
		if err := s.progress.Save(ctx, session.UserID, session.OwnerID, cardID, state); err != nil {
			return fmt.Errorf("failed to save shared progress: %w", err)
		}
	default:
		if err := s.cards.SaveScheduling(ctx, session.UserID, cardID, state); err != nil {
			return fmt.Errorf("failed to save scheduling: %w", err)
		}
	}
	return nil
}
