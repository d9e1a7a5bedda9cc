package domain

import (
	"fmt"
	"time"
)

// Rating represents the user's recall grade for a reviewed card.
type Rating string

// Possible rating values
const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// Valid reports whether r is one of the four recognized ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	default:
		return false
	}
}

// Scheduling bounds shared by cards and shared progress records.
const (
	// MinEase is the lower bound on the ease factor.
	MinEase = 1.3

	// DefaultEase is the ease factor assigned to new cards.
	DefaultEase = 2.5
)

// Scheduling validation errors
var (
	ErrNegativeInterval = fmt.Errorf("%w: interval must be greater than or equal to 0", ErrValidation)
	ErrEaseTooLow       = fmt.Errorf("%w: ease factor must be at least 1.3", ErrValidation)
)

// SchedulingState holds the spaced-repetition fields of a card. The same
// shape is persisted on the owner's card record and, for shared study, on
// the recipient's private progress record.
type SchedulingState struct {
	Interval       float64    `json:"interval"`          // days until next review; 0 means new
	Ease           float64    `json:"ease"`              // interval growth multiplier, >= 1.3
	NextReviewAt   time.Time  `json:"next_review_at"`    // when the card next becomes due
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	LastRating     *Rating    `json:"last_rating,omitempty"`
}

// NewSchedulingState returns the defaults for a card that has never been
// reviewed: interval 0, default ease, due immediately.
func NewSchedulingState(now time.Time) SchedulingState {
	return SchedulingState{
		Interval:     0,
		Ease:         DefaultEase,
		NextReviewAt: now,
	}
}

// IsNew reports whether the card has never been scheduled.
// A card is new exactly when its interval is 0.
func (s SchedulingState) IsNew() bool {
	return s.Interval == 0
}

// IsDue reports whether the card is eligible for review at the given time.
// New cards are always due.
func (s SchedulingState) IsDue(now time.Time) bool {
	return s.IsNew() || !s.NextReviewAt.After(now)
}

// Validate checks the scheduling invariants.
func (s SchedulingState) Validate() error {
	if s.Interval < 0 {
		return ErrNegativeInterval
	}
	if s.Ease < MinEase {
		return ErrEaseTooLow
	}
	if s.LastRating != nil && !s.LastRating.Valid() {
		return ErrInvalidRating
	}
	return nil
}
