// Package api provides the HTTP handlers for the collection, study, and
// sharing surfaces.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/api/middleware"
	"github.com/decksmith/decksmith/internal/api/shared"
	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
	"github.com/decksmith/decksmith/internal/store"
)

// CardHandler handles card CRUD requests.
type CardHandler struct {
	cards  *store.CardStore
	logger *slog.Logger
}

// NewCardHandler creates a CardHandler.
func NewCardHandler(cards *store.CardStore, logger *slog.Logger) *CardHandler {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deckPath, err := domain.ParseDeckPath(req.DeckPath)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	category := domain.Category(req.Category)
	if category == "" {
		category = domain.CategoryContent
	}

	card, err := domain.NewCard(deckPath, req.Content, category)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card data")
		return
	}

	if err := h.cards.Create(r.Context(), identity.UserID, card); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("card created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// ListCards handles GET /cards requests.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cards, err := h.cards.List(r.Context(), identity.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	card, err := h.cards.Get(r.Context(), identity.UserID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// UpdateCard handles PUT /cards/{id} requests. Only the owner's content,
// category, and location change; scheduling is preserved as stored.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req UpdateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	deckPath, err := domain.ParseDeckPath(req.DeckPath)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	card, err := h.cards.Get(r.Context(), identity.UserID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	card.DeckPath = deckPath
	card.Content = req.Content
	if req.Category != "" {
		card.Category = domain.Category(req.Category)
	}
	if err := card.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card data")
		return
	}

	if err := h.cards.Save(r.Context(), identity.UserID, card); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("card updated", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// DeleteCard handles DELETE /cards/{id} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	if err := h.cards.Delete(r.Context(), identity.UserID, cardID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("card deleted", slog.String("card_id", cardID.String()))
	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}
