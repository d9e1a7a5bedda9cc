package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/decksmith/decksmith/internal/api"
	"github.com/decksmith/decksmith/internal/api/middleware"
)

// routerDeps bundles everything the router needs.
type routerDeps struct {
	authMiddleware *middleware.AuthMiddleware
	cardHandler    *api.CardHandler
	deckHandler    *api.DeckHandler
	studyHandler   *api.StudyHandler
	shareHandler   *api.ShareHandler
}

func newRouter(deps routerDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.authMiddleware.Authenticate)

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", deps.cardHandler.CreateCard)
			r.Get("/", deps.cardHandler.ListCards)
			r.Get("/{id}", deps.cardHandler.GetCard)
			r.Put("/{id}", deps.cardHandler.UpdateCard)
			r.Delete("/{id}", deps.cardHandler.DeleteCard)
		})

		r.Route("/decks", func(r chi.Router) {
			r.Get("/children", deps.deckHandler.Children)
			r.Get("/tree", deps.deckHandler.Tree)
			r.Post("/move", deps.deckHandler.Move)
			r.Post("/rename", deps.deckHandler.Rename)
			r.Post("/delete", deps.deckHandler.Delete)
			r.Get("/settings", deps.deckHandler.GetSettings)
			r.Put("/settings", deps.deckHandler.SaveSettings)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", deps.studyHandler.StartSession)
			r.Get("/{id}/current", deps.studyHandler.CurrentCard)
			r.Post("/{id}/rate", deps.studyHandler.RateCard)
			r.Post("/{id}/skip", deps.studyHandler.SkipCard)
			r.Delete("/{id}", deps.studyHandler.AbandonSession)
		})

		r.Route("/shares", func(r chi.Router) {
			r.Post("/", deps.shareHandler.CreateShare)
			r.Post("/revoke", deps.shareHandler.RevokeShare)
			r.Get("/inbox", deps.shareHandler.Inbox)
			r.Get("/outgoing", deps.shareHandler.Outgoing)
		})
	})

	return r
}
