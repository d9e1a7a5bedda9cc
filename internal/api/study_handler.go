package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/decksmith/decksmith/internal/api/middleware"
	"github.com/decksmith/decksmith/internal/api/shared"
	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/service/study"
)

// StudyHandler handles study session requests.
type StudyHandler struct {
	study  *study.Service
	logger *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(studySvc *study.Service, logger *slog.Logger) *StudyHandler {
	if studySvc == nil {
		panic("study service cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &StudyHandler{
		study:  studySvc,
		logger: logger.With(slog.String("component", "study_handler")),
	}
}

// StartSession handles POST /sessions requests. A present owner_id opens
// a shared session over that owner's deck.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var deckPath domain.DeckPath
	if req.DeckPath != "" {
		var err error
		deckPath, err = domain.ParseDeckPath(req.DeckPath)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
			return
		}
	}

	var (
		session *study.Session
		err     error
	)
	if req.OwnerID != "" {
		if deckPath == nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Shared sessions require a deck path")
			return
		}
		session, err = h.study.StartSharedSession(
			r.Context(), identity.UserID, domain.UserID(req.OwnerID), deckPath, req.Cramming, time.Now())
	} else {
		session, err = h.study.StartSession(
			r.Context(), identity.UserID, deckPath, req.Cramming, time.Now())
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionResponse(session))
}

// CurrentCard handles GET /sessions/{id}/current requests.
func (h *StudyHandler) CurrentCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	card, err := h.study.Current(sessionID, identity.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, card)
}

// RateCard handles POST /sessions/{id}/rate requests.
func (h *StudyHandler) RateCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req RateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.study.RateCard(r.Context(), sessionID, identity.UserID, domain.Rating(req.Rating), time.Now())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// SkipCard handles POST /sessions/{id}/skip requests.
func (h *StudyHandler) SkipCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	result, err := h.study.Skip(r.Context(), sessionID, identity.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// AbandonSession handles DELETE /sessions/{id} requests. Nothing is
// persisted; the in-memory queue is simply discarded.
func (h *StudyHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	if err := h.study.Abandon(sessionID, identity.UserID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusNoContent, nil)
}

func sessionResponse(s *study.Session) SessionResponse {
	resp := SessionResponse{
		ID:        s.ID.String(),
		Mode:      string(s.Mode),
		Remaining: s.Queue.Remaining(),
	}
	if card, err := s.Queue.Current(); err == nil {
		resp.Card = card
	}
	return resp
}
