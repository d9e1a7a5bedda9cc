package study

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testSession() *Session {
	return &Session{ID: uuid.New(), Mode: ModeLocal, UserID: "user-1", Queue: BuildQueue(nil, time.Now(), false)}
}

func TestRegistryExpiresIdleSessions(t *testing.T) {
	t.Parallel() // Enable parallel execution

	clock := time.Now()
	r := newSessionRegistry()
	r.now = func() time.Time { return clock }

	stale := testSession()
	r.add(stale)

	clock = clock.Add(sessionIdleTimeout + time.Minute)

	if _, err := r.get(stale.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected idle session to be gone, got %v", err)
	}
}

func TestRegistrySweepsOnAdd(t *testing.T) {
	t.Parallel() // Enable parallel execution

	clock := time.Now()
	r := newSessionRegistry()
	r.now = func() time.Time { return clock }

	stale := testSession()
	r.add(stale)

	clock = clock.Add(sessionIdleTimeout + time.Minute)
	fresh := testSession()
	r.add(fresh)

	r.mu.Lock()
	_, staleHeld := r.entries[stale.ID]
	_, freshHeld := r.entries[fresh.ID]
	r.mu.Unlock()
	if staleHeld {
		t.Error("Expected the idle session to be swept when a new one is added")
	}
	if !freshHeld {
		t.Error("Expected the new session to be registered")
	}
}

func TestRegistryActivityKeepsSessionAlive(t *testing.T) {
	t.Parallel() // Enable parallel execution

	clock := time.Now()
	r := newSessionRegistry()
	r.now = func() time.Time { return clock }

	s := testSession()
	r.add(s)

	// Touch the session just inside the timeout, twice; each get renews it.
	for i := 0; i < 2; i++ {
		clock = clock.Add(sessionIdleTimeout - time.Minute)
		if _, err := r.get(s.ID); err != nil {
			t.Fatalf("Expected active session to survive, got %v", err)
		}
	}
}
