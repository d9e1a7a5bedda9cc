package study

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/domain"
)

// ErrSessionNotFound is returned when a session ID is unknown, already
// completed, or abandoned.
var ErrSessionNotFound = errors.New("session not found")

// SessionMode distinguishes who owns the cards being studied.
type SessionMode string

// Possible session modes
const (
	// ModeLocal studies the user's own cards; ratings write back to the
	// cards themselves.
	ModeLocal SessionMode = "local"

	// ModeShared studies another user's deck; ratings write only to the
	// recipient's private progress records.
	ModeShared SessionMode = "shared"
)

// Session is one in-flight review run. It exists only in this process;
// nothing about it is persisted until a card is rated or deferred.
type Session struct {
	ID        uuid.UUID
	Mode      SessionMode
	UserID    domain.UserID
	OwnerID   domain.UserID
	DeckPath  domain.DeckPath
	Cramming  bool
	Queue     *Queue
	StartedAt time.Time
}

// sessionIdleTimeout is how long a session may sit untouched before the
// registry reclaims it. Clients that drop without abandoning their
// session would otherwise pin the queue for the process lifetime.
const sessionIdleTimeout = 6 * time.Hour

// sessionRegistry holds live sessions keyed by ID. Abandonment is simply
// removal; the queue is garbage, not state to persist. Idle sessions are
// swept opportunistically on every add.
type sessionRegistry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*sessionEntry
	now     func() time.Time
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		entries: make(map[uuid.UUID]*sessionEntry),
		now:     time.Now,
	}
}

func (r *sessionRegistry) add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()
	r.entries[s.ID] = &sessionEntry{session: s, lastSeen: r.now()}
}

func (r *sessionRegistry) get(id uuid.UUID) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.now().Sub(e.lastSeen) > sessionIdleTimeout {
		delete(r.entries, id)
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.session, nil
}

func (r *sessionRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// sweepLocked drops every entry idle past the timeout. Caller holds mu.
func (r *sessionRegistry) sweepLocked() {
	cutoff := r.now().Add(-sessionIdleTimeout)
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
		}
	}
}
