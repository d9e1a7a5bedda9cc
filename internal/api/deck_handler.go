package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/decksmith/decksmith/internal/api/middleware"
	"github.com/decksmith/decksmith/internal/api/shared"
	"github.com/decksmith/decksmith/internal/domain"
	"github.com/decksmith/decksmith/internal/platform/logger"
	"github.com/decksmith/decksmith/internal/service/hierarchy"
	"github.com/decksmith/decksmith/internal/store"
)

// DeckHandler handles deck browsing, reorganization, and settings.
type DeckHandler struct {
	hierarchy *hierarchy.Service
	configs   *store.DeckConfigStore
	logger    *slog.Logger
}

// NewDeckHandler creates a DeckHandler.
func NewDeckHandler(hierarchySvc *hierarchy.Service, configs *store.DeckConfigStore, logger *slog.Logger) *DeckHandler {
	if hierarchySvc == nil {
		panic("hierarchy service cannot be nil")
	}
	if configs == nil {
		panic("configs cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &DeckHandler{
		hierarchy: hierarchySvc,
		configs:   configs,
		logger:    logger.With(slog.String("component", "deck_handler")),
	}
}

// optionalPath parses the named query parameter as a deck path. An absent
// or empty parameter means the collection root.
func optionalPath(r *http.Request, param string) (domain.DeckPath, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return nil, nil
	}
	return domain.ParseDeckPath(raw)
}

// Children handles GET /decks/children?path= requests.
func (h *DeckHandler) Children(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	prefix, err := optionalPath(r, "path")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	groups, err := h.hierarchy.Children(r.Context(), identity.UserID, prefix, time.Now())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, groups)
}

// Tree handles GET /decks/tree?current= requests, returning the selection
// tree for move-target dialogs.
func (h *DeckHandler) Tree(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	current, err := optionalPath(r, "current")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	tree, err := h.hierarchy.Tree(r.Context(), identity.UserID, current)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tree)
}

// Move handles POST /decks/move requests.
func (h *DeckHandler) Move(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req MoveDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	oldPath, err := domain.ParseDeckPath(req.OldPath)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}
	newPath, err := domain.ParseDeckPath(req.NewPath)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	moved, err := h.hierarchy.Move(r.Context(), identity.UserID, oldPath, newPath)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("deck move applied", slog.Int("cards", moved))
	shared.RespondWithJSON(w, r, http.StatusOK, CascadeResponse{Cards: moved})
}

// Rename handles POST /decks/rename requests.
func (h *DeckHandler) Rename(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RenameDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	path, err := domain.ParseDeckPath(req.Path)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	renamed, err := h.hierarchy.Rename(r.Context(), identity.UserID, path, req.NewName)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CascadeResponse{Cards: renamed})
}

// Delete handles POST /decks/delete requests.
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req DeleteDeckRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	path, err := domain.ParseDeckPath(req.Path)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	removed, err := h.hierarchy.Delete(r.Context(), identity.UserID, path)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("deck delete applied", slog.Int("cards", removed))
	shared.RespondWithJSON(w, r, http.StatusOK, CascadeResponse{Cards: removed})
}

// GetSettings handles GET /decks/settings?path= requests, falling back to
// the default configuration when none is saved.
func (h *DeckHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	path, err := domain.ParseDeckPath(r.URL.Query().Get("path"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}

	cfg, err := h.configs.GetOrDefault(r.Context(), identity.UserID, path)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cfg)
}

// SaveSettings handles PUT /decks/settings requests; the configuration is
// overwritten wholesale.
func (h *DeckHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req SaveDeckConfigRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	path, err := domain.ParseDeckPath(req.Path)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck path")
		return
	}
	if err := req.Config.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck configuration")
		return
	}

	if err := h.configs.Save(r.Context(), identity.UserID, path, req.Config); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, req.Config)
}
