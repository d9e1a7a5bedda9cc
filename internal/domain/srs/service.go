package srs

import (
	"errors"
	"time"

	"github.com/decksmith/decksmith/internal/domain"
)

// Common errors
var (
	ErrInvalidRating = errors.New("invalid rating")
	ErrInvalidDefer  = errors.New("defer duration must be positive")
)

// Service defines the interface for scheduling operations
type Service interface {
	// CalculateNextReview computes the new scheduling state for a rating.
	// Callers without a saved deck configuration must pass
	// domain.DefaultDeckConfig(); the scheduler itself never reaches for
	// remote state.
	CalculateNextReview(
		state domain.SchedulingState,
		rating domain.Rating,
		cfg domain.DeckConfig,
		now time.Time,
	) (domain.SchedulingState, error)

	// DeferReview pushes the next review time forward by the given
	// duration without touching interval, ease, or review history. Used
	// by the terminal skip of a single-card session.
	DeferReview(
		state domain.SchedulingState,
		d time.Duration,
	) (domain.SchedulingState, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct{}

// NewService creates the standard scheduler.
func NewService() Service {
	return &defaultService{}
}

// CalculateNextReview implements the Service interface for calculating updated state
func (s *defaultService) CalculateNextReview(
	state domain.SchedulingState,
	rating domain.Rating,
	cfg domain.DeckConfig,
	now time.Time,
) (domain.SchedulingState, error) {
	if !rating.Valid() {
		return domain.SchedulingState{}, ErrInvalidRating
	}

	return nextState(state, rating, cfg, now), nil
}

// DeferReview implements the Service interface for deferring reviews
func (s *defaultService) DeferReview(
	state domain.SchedulingState,
	d time.Duration,
) (domain.SchedulingState, error) {
	if d <= 0 {
		return domain.SchedulingState{}, ErrInvalidDefer
	}

	newState := state
	newState.NextReviewAt = state.NextReviewAt.Add(d)
	return newState, nil
}
