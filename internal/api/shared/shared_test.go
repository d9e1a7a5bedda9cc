package shared_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decksmith/decksmith/internal/api/shared"
)

func TestTraceID(t *testing.T) {
	t.Parallel() // Enable parallel execution

	ctx := shared.SetTraceID(context.Background())
	traceID := shared.GetTraceID(ctx)
	assert.Len(t, traceID, 32, "trace ID is 16 random bytes hex encoded")

	other := shared.GetTraceID(shared.SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other)

	assert.Empty(t, shared.GetTraceID(context.Background()))
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel() // Enable parallel execution

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/decks", nil)

	shared.RespondWithJSON(w, r, 201, map[string]string{"status": "created"})

	assert.Equal(t, 201, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"created"}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel() // Enable parallel execution

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/decks", nil)
	r = r.WithContext(shared.SetTraceID(r.Context()))

	shared.RespondWithError(w, r, 404, "Deck not found")

	assert.Equal(t, 404, w.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Deck not found", resp.Error)
	assert.NotEmpty(t, resp.TraceID)
}

func TestRespondWithErrorAndLogSanitizes(t *testing.T) {
	t.Parallel() // Enable parallel execution

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/shares", nil)

	internal := errors.New("inbox write failed for pal@example.com")
	shared.RespondWithErrorAndLog(w, r, 500, "Failed to create share", internal)

	assert.Equal(t, 500, w.Code)
	assert.NotContains(t, w.Body.String(), "pal@example.com",
		"internal error detail must not reach the client")
	assert.Contains(t, w.Body.String(), "Failed to create share")
}

func TestDecodeJSONAndValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution

	type payload struct {
		Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
	}

	r := httptest.NewRequest("POST", "/sessions/rate", strings.NewReader(`{"rating":"good"}`))
	var p payload
	require.NoError(t, shared.DecodeJSON(r, &p))
	assert.Equal(t, "good", p.Rating)
	assert.NoError(t, shared.ValidateRequest(&p))

	p.Rating = "perfect"
	assert.Error(t, shared.ValidateRequest(&p))
}
