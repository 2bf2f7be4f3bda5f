package gamehandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mount registers the game routes. requireAdmin guards the admin group.
func Mount(r chi.Router, h Handlers, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/api/games", h.HandleListGames)

	r.Route("/api/admin/games", func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/import", h.HandleImport)
		r.Post("/{id}/winner", h.HandleSetWinner)
		r.Post("/{id}/matchup", h.HandleSetMatchup)
		r.Post("/{id}/kickoff", h.HandleSetKickoff)
	})
}
