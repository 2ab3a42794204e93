// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/collage/service/internal/config"
	appMiddleware "github.com/collage/service/internal/middleware"
	"github.com/collage/service/internal/response"
	"github.com/collage/service/internal/upload"

	_ "github.com/collage/service/docs/swagger"
)

// NewRouter wires middleware and the collage endpoints under /api.
// The Swagger UI is not mounted in production.
func NewRouter(h *upload.Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found")
	})

	// Swagger UI at /swagger/index.html
	if !cfg.IsProduction() {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/generate-token", h.GenerateToken)
		r.Post("/upload", h.Upload)
		r.Get("/images", h.ListImages)
		r.Post("/reset", h.Reset)
	})

	return r
}
