// Package srs implements the spaced-repetition scheduling algorithm.
// The transition is a pure function of the card's prior scheduling state,
// the user's rating, and the deck configuration; it takes no store
// dependency and never fails over its documented input ranges.
package srs

import (
	"time"

	"github.com/decksmith/decksmith/internal/domain"
)

// Interval floors, in days.
const (
	// minGrownInterval is the smallest interval a Hard or Good rating can
	// produce when the rule unit is days.
	minGrownInterval = 1.0

	// minEasyInterval is the smallest interval an Easy rating can produce
	// when the rule unit is days.
	minEasyInterval = 4.0

	// degenerateInterval is the threshold below which a non-Again interval
	// is considered a degenerate zero-day review.
	degenerateInterval = 0.0001

	// clampedInterval (roughly one minute) replaces degenerate intervals.
	clampedInterval = 0.0007

	// minutesPerDay converts minute-unit rule magnitudes into day intervals.
	minutesPerDay = 1440.0
)

// Ease factor adjustments per rating.
const (
	againEaseDelta = -0.20
	hardEaseDelta  = -0.15
	easyEaseDelta  = 0.15
)

// calculateNewEase determines the new ease factor for a rating.
//
// "Again" and "Hard" lower the ease, "Easy" raises it, and "Good" leaves it
// unchanged. The result is never allowed below domain.MinEase.
func calculateNewEase(currentEase float64, rating domain.Rating) float64 {
	var newEase float64
	switch rating {
	case domain.RatingAgain:
		newEase = currentEase + againEaseDelta
	case domain.RatingHard:
		newEase = currentEase + hardEaseDelta
	case domain.RatingEasy:
		newEase = currentEase + easyEaseDelta
	default:
		newEase = currentEase
	}

	if newEase < domain.MinEase {
		newEase = domain.MinEase
	}

	return newEase
}

// calculateNewInterval determines the new interval in days for a rating.
//
// "Again" resets the interval to 0 (the card becomes new and immediately
// due). For the other ratings the deck rule decides: a minutes-unit rule
// yields a fixed fractional-day interval, a days-unit rule multiplies the
// prior interval with a floor of one day (four days for "Easy", so a new
// card rated Easy skips ahead). Non-Again results below the degenerate
// threshold are clamped to roughly one minute so a review is never
// rescheduled into the same instant.
func calculateNewInterval(priorInterval float64, rating domain.Rating, cfg domain.DeckConfig) float64 {
	var interval float64

	switch rating {
	case domain.RatingAgain:
		return 0

	case domain.RatingHard:
		interval = applyRule(priorInterval, cfg.Hard, minGrownInterval)

	case domain.RatingGood:
		interval = applyRule(priorInterval, cfg.Good, minGrownInterval)

	case domain.RatingEasy:
		interval = applyRule(priorInterval, cfg.EasyBonus, minEasyInterval)
	}

	if interval < degenerateInterval {
		interval = clampedInterval
	}

	return interval
}

// applyRule evaluates one deck rule against the prior interval.
func applyRule(priorInterval float64, rule domain.StepRule, floor float64) float64 {
	if rule.Unit == domain.UnitMinutes {
		return rule.Magnitude / minutesPerDay
	}

	interval := priorInterval * rule.Magnitude
	if interval < floor {
		interval = floor
	}
	return interval
}

// calculateNextReviewAt converts an interval in days into the next review
// timestamp relative to now. Fractional days are respected, so minute-unit
// rules land minutes (not days) in the future.
func calculateNextReviewAt(interval float64, now time.Time) time.Time {
	return now.Add(time.Duration(interval * float64(24*time.Hour)))
}

// nextState computes the full scheduling state after a rating, following
// the immutable update pattern: the prior state is never modified.
func nextState(prior domain.SchedulingState, rating domain.Rating, cfg domain.DeckConfig, now time.Time) domain.SchedulingState {
	newState := prior

	newState.Ease = calculateNewEase(prior.Ease, rating)
	newState.Interval = calculateNewInterval(prior.Interval, rating, cfg)
	newState.NextReviewAt = calculateNextReviewAt(newState.Interval, now)

	reviewedAt := now
	newState.LastReviewedAt = &reviewedAt
	ratedWith := rating
	newState.LastRating = &ratedWith

	return newState
}
