// Package docs mounts the Swagger UI for the knowledge backend API.
package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// specPath is resolved against the server's working directory.
const specPath = "docs/swagger.yaml"

// RegisterRoutes mounts the Swagger UI and the OpenAPI document under
// /docs.
func RegisterRoutes(r chi.Router) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})
	r.Get("/docs/*", uiHandler())
	r.Get("/docs/swagger.yaml", specHandler())
}

func uiHandler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yaml"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// specHandler serves the hand-maintained OpenAPI file.
func specHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, specPath)
	}
}
