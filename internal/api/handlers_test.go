package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decksmith/decksmith/internal/api"
	"github.com/decksmith/decksmith/internal/api/shared"
	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/memstore"
	"github.com/decksmith/decksmith/internal/service/auth"
	"github.com/decksmith/decksmith/internal/service/hierarchy"
	"github.com/decksmith/decksmith/internal/store"
)

// testEnv wires the handlers over an in-memory store, bypassing the auth
// middleware by injecting the identity directly.
type testEnv struct {
	cards   *store.CardStore
	configs *store.DeckConfigStore
	card    *api.CardHandler
	deck    *api.DeckHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := memstore.New()
	cards := store.NewCardStore(kv, log)
	configs := store.NewDeckConfigStore(kv, log)

	return &testEnv{
		cards:   cards,
		configs: configs,
		card:    api.NewCardHandler(cards, log),
		deck:    api.NewDeckHandler(hierarchy.NewService(cards, log), configs, log),
	}
}

func authedRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, target, reader)
	identity := &auth.Identity{UserID: "user-1", Email: "user@example.com"}
	return r.WithContext(context.WithValue(r.Context(), shared.IdentityContextKey, identity))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestCreateCard(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)

	w := httptest.NewRecorder()
	r := authedRequest(t, "POST", "/cards", api.CreateCardRequest{
		DeckPath: "Law::Civil",
		Content: domain.CardContent{
			Format: domain.FormatBasic,
			Front:  "What is consideration?",
			Back:   "A bargained-for exchange.",
		},
	})
	env.card.CreateCard(w, r)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var card domain.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "Law::Civil", card.DeckPath.String())
	assert.True(t, card.Scheduling.IsNew())
	assert.Equal(t, domain.CategoryContent, card.Category, "category defaults when omitted")

	// Round-trip through the store.
	stored, err := env.cards.Get(r.Context(), "user-1", card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.Content, stored.Content)
}

func TestCreateCardRejectsBadPayload(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)

	tests := []struct {
		name string
		body api.CreateCardRequest
	}{
		{
			name: "missing deck path",
			body: api.CreateCardRequest{
				Content: domain.CardContent{Format: domain.FormatBasic, Front: "f"},
			},
		},
		{
			name: "separator inside segment handled by parser",
			body: api.CreateCardRequest{
				DeckPath: "Law::::Civil",
				Content:  domain.CardContent{Format: domain.FormatBasic, Front: "f"},
			},
		},
		{
			name: "objective card without answer",
			body: api.CreateCardRequest{
				DeckPath: "Law",
				Content:  domain.CardContent{Format: domain.FormatObjective, Front: "f"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel() // Enable parallel execution

			w := httptest.NewRecorder()
			env.card.CreateCard(w, authedRequest(t, "POST", "/cards", tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetCardNotFound(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)

	w := httptest.NewRecorder()
	r := withURLParam(
		authedRequest(t, "GET", "/cards/a2ae7400-af50-4a09-96cf-9c9c1f1a3bfa", nil),
		"id", "a2ae7400-af50-4a09-96cf-9c9c1f1a3bfa")
	env.card.GetCard(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Card not found")
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.card.ListCards(w, httptest.NewRequest("GET", "/cards", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMoveDeckEndpoint(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)
	ctx := context.Background()

	for _, path := range []string{"Law::Civil", "Law::Civil::Contracts", "Law::Criminal"} {
		p, err := domain.ParseDeckPath(path)
		require.NoError(t, err)
		card, err := domain.NewCard(p, domain.CardContent{Format: domain.FormatBasic, Front: "f"}, domain.CategoryContent)
		require.NoError(t, err)
		require.NoError(t, env.cards.Create(ctx, "user-1", card))
	}

	w := httptest.NewRecorder()
	env.deck.Move(w, authedRequest(t, "POST", "/decks/move", api.MoveDeckRequest{
		OldPath: "Law::Civil",
		NewPath: "Archive::Civil",
	}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.CascadeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Cards)
}

func TestMoveDeckEndpointRejectsCycle(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.deck.Move(w, authedRequest(t, "POST", "/decks/move", api.MoveDeckRequest{
		OldPath: "Law",
		NewPath: "Law::Civil",
	}))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot move a deck into itself")
}

func TestRenameDeckEndpointRejectsSeparatorInName(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)
	ctx := context.Background()

	p, err := domain.ParseDeckPath("Law::Civil")
	require.NoError(t, err)
	card, err := domain.NewCard(p, domain.CardContent{Format: domain.FormatBasic, Front: "f"}, domain.CategoryContent)
	require.NoError(t, err)
	require.NoError(t, env.cards.Create(ctx, "user-1", card))

	w := httptest.NewRecorder()
	env.deck.Rename(w, authedRequest(t, "POST", "/decks/rename", api.RenameDeckRequest{
		Path:    "Law::Civil",
		NewName: "A::B",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Deck names cannot contain the path separator")
}

func TestDeckSettingsRoundTrip(t *testing.T) {
	t.Parallel() // Enable parallel execution

	env := newTestEnv(t)

	// Unsaved settings come back as the defaults.
	w := httptest.NewRecorder()
	env.deck.GetSettings(w, authedRequest(t, "GET", "/decks/settings?path=Law", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var cfg domain.DeckConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, domain.DefaultDeckConfig(), cfg)

	// Save a custom configuration and read it back.
	cfg.Good.Magnitude = 3.0
	w = httptest.NewRecorder()
	env.deck.SaveSettings(w, authedRequest(t, "PUT", "/decks/settings", api.SaveDeckConfigRequest{
		Path:   "Law",
		Config: cfg,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	env.deck.GetSettings(w, authedRequest(t, "GET", "/decks/settings?path=Law", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.DeckConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.InDelta(t, 3.0, got.Good.Magnitude, 1e-9)
}
