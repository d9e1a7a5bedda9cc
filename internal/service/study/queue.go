// Package study runs review sessions: it builds the shuffled queue of
// cards to review, walks it card by card, and routes each rating through
// the scheduler to the right persistence path. Sessions live only in
// memory; abandoning one discards the queue without a single write.
package study

import (
	"errors"
	"math/rand"
	"time"

	"github.com/decksmith/decksmith/internal/domain"
)

// skipDeferral is how far a terminal skip pushes the lone card's next
// review time.
const skipDeferral = 5 * time.Minute

// ErrQueueExhausted is returned when an operation needs a current card
// but the queue has been walked to the end.
var ErrQueueExhausted = errors.New("session queue is exhausted")

// Queue is the ordered run of cards for one session, with a cursor.
type Queue struct {
	cards []*domain.Card
	index int
}

// BuildQueue selects and orders the cards for a session. Outside cramming
// only due cards are included; cramming takes everything. The order is a
// uniform random permutation, independent of how cards arrived.
func BuildQueue(cards []*domain.Card, now time.Time, cramming bool) *Queue {
	selected := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		if cramming || card.Scheduling.IsDue(now) {
			selected = append(selected, card)
		}
	}

	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	return &Queue{cards: selected}
}

// Len returns the total number of cards in the queue.
func (q *Queue) Len() int {
	return len(q.cards)
}

// Remaining returns how many cards are left, including the current one.
func (q *Queue) Remaining() int {
	if q.index >= len(q.cards) {
		return 0
	}
	return len(q.cards) - q.index
}

// Current returns the card under the cursor.
func (q *Queue) Current() (*domain.Card, error) {
	if q.index >= len(q.cards) {
		return nil, ErrQueueExhausted
	}
	return q.cards[q.index], nil
}

// Advance moves the cursor past the current card and reports whether the
// session is complete.
func (q *Queue) Advance() bool {
	q.index++
	return q.index >= len(q.cards)
}

// Rotate moves the current card to the tail, leaving the cursor in place
// so it now points at the next card. Callers must not rotate a
// single-card queue; that case is the terminal skip handled by the
// service.
func (q *Queue) Rotate() error {
	if q.index >= len(q.cards) {
		return ErrQueueExhausted
	}

	card := q.cards[q.index]
	q.cards = append(q.cards[:q.index], q.cards[q.index+1:]...)
	q.cards = append(q.cards, card)
	return nil
}
