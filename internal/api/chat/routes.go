package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/", h.Chat)
		r.Post("/export", h.Export)
	})
	r.Post("/search", h.Search)
	r.Get("/model-info", h.ModelInfo)
}
