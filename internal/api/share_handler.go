package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/decksmith/decksmith/internal/api/middleware"
	"github.com/decksmith/decksmith/internal/api/shared"
	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
	"github.com/decksmith/decksmith/internal/service/sharing"
	"github.com/decksmith/decksmith/internal/store"
)

// ShareHandler handles share invite requests.
type ShareHandler struct {
	sharing *sharing.Service
	shares  *store.ShareStore
	logger  *slog.Logger
}

// NewShareHandler creates a ShareHandler.
func NewShareHandler(sharingSvc *sharing.Service, shares *store.ShareStore, logger *slog.Logger) *ShareHandler {
	if sharingSvc == nil {
		panic("sharing service cannot be nil")
	}
	if shares == nil {
		panic("shares cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &ShareHandler{
		sharing: sharingSvc,
		shares:  shares,
		logger:  logger.With(slog.String("component", "share_handler")),
	}
}

// CreateShare handles POST /shares requests.
func (h *ShareHandler) CreateShare(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ShareRequest
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

	invite, err := h.sharing.Invite(
		r.Context(), identity.UserID, identity.Email, req.RecipientEmail, deckPath, domain.ShareRole(req.Role))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("share created", slog.String("invite_id", invite.InviteID))
	shared.RespondWithJSON(w, r, http.StatusCreated, invite)
}

// RevokeShare handles POST /shares/revoke requests. Revocation is
// idempotent; revoking an already absent share succeeds with a zero
// matched count.
func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RevokeShareRequest
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

	matched, err := h.sharing.Revoke(r.Context(), identity.UserID, deckPath, req.RecipientEmail, req.InviteID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RevokeShareResponse{Invites: matched})
}

// Inbox handles GET /shares/inbox requests: decks shared with the caller,
// with merged counts.
func (h *ShareHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	decks, err := h.sharing.ListSharedDecks(r.Context(), identity.UserID, identity.Email, time.Now())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, decks)
}

// Outgoing handles GET /shares/outgoing requests: the caller's own
// registry of issued shares, keyed by encoded deck.
func (h *ShareHandler) Outgoing(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	entries, err := h.shares.ListSharedOut(r.Context(), identity.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}
