package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes registers all API routes on the given chi router.
func MountRoutes(r chi.Router, h *Handlers) {
	r.Route("/api/v1", func(r chi.Router) {
		// Version
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"version": h.Version})
		})

		// Agents
		r.Get("/agents", h.ListAgents)
		r.Get("/agents/{id}", h.GetAgent)
		r.Get("/agents/{id}/render", h.RenderAgent)

		// Bundles
		r.Get("/bundles", h.ListBundles)
		r.Get("/bundles/{name}", h.GetBundle)

		// Rendering and builds
		r.Get("/formats", h.ListFormats)

		// Published documents
		r.Get("/documents", h.ListDocuments)
		r.Get("/documents/{id}", h.LatestDocument)

		// Writes
		r.Group(func(r chi.Router) {
			if h.WriteLimit != nil {
				r.Use(h.WriteLimit)
			}
			r.Post("/agents", h.CreateAgent)
			r.Post("/build", h.Build)
		})
	})
}
