package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hpungsan/bridgeai/internal/api/middleware"
	"github.com/hpungsan/bridgeai/internal/ops"
	"github.com/hpungsan/bridgeai/internal/web"
)

// MaxBodyBytes bounds request bodies; a page snapshot can be large.
const MaxBodyBytes = 8 << 20

// NewRouter creates and configures the HTTP router.
func NewRouter(deps *ops.Deps, logger zerolog.Logger, version string) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(MaxBodyBytes))

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	h := NewHandler(deps, logger, version)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)
	r.Get("/platforms", h.Platforms)
	r.Post("/tabs", h.OpenTab)

	r.Route("/slots/{key}", func(r chi.Router) {
		r.Get("/", h.GetSlot)
		r.Put("/", h.PutSlot)
		r.Delete("/", h.DeleteSlot)
	})

	r.Route("/payload", func(r chi.Router) {
		r.Get("/", h.GetPayload)
		r.Post("/", h.SubmitPayload)
		r.Delete("/", h.ClearPayload)
		r.Post("/expire", h.ExpirePayload)
	})

	r.Post("/scrape", h.Scrape)
	r.Post("/prompt", h.BuildPrompt)
	r.Post("/transfer", h.Transfer)
	r.Post("/deliver", h.Deliver)

	r.Mount("/ui", web.NewHandler(deps, version))

	return r
}
