package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/listforge/listforge/internal/attrs"
	"github.com/listforge/listforge/internal/batch"
	"github.com/listforge/listforge/internal/catalog"
	"github.com/listforge/listforge/internal/filters"
	"github.com/listforge/listforge/internal/observability"
	"github.com/listforge/listforge/internal/offers"
	"github.com/listforge/listforge/internal/tags"
	"github.com/listforge/listforge/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	CatalogHandler *catalog.Handler
	OffersHandler  *offers.Handler
	FiltersHandler *filters.Handler
	TagsHandler    *tags.Handler
	BatchHandler   *batch.Handler
	AttrsHandler   *attrs.Handler
	JobHandler     *jobs.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with Listforge defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Handle("/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if params.CatalogHandler != nil {
			r.Route("/products", params.CatalogHandler.MountRoutes)
		}
		if params.OffersHandler != nil {
			r.Route("/offers", params.OffersHandler.MountRoutes)
		}
		if params.FiltersHandler != nil {
			r.Route("/filters", params.FiltersHandler.MountRoutes)
		}
		if params.TagsHandler != nil {
			r.Route("/tags", params.TagsHandler.MountRoutes)
		}
		if params.BatchHandler != nil {
			r.Route("/batches", params.BatchHandler.MountRoutes)
		}
		if params.AttrsHandler != nil {
			r.Route("/categories", params.AttrsHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
