package apiserver

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// handler wires a Service into chi route handlers, the per-operation
// counterpart of the teacher's MapMatchingHandler.
type handler struct {
	svc Service
}

// NewRouter assembles the full HTTP surface for the six §6 operations
// plus /metrics and /swagger, mirroring the middleware stack
// cmd/engine/main.go installs (request logger, prometheus middleware,
// permissive CORS) ahead of mounting the route groups. No pprof handler
// is mounted.
func NewRouter(svc Service, reg *prometheus.Registry) *chi.Mux {
	m := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(PromHTTPMiddleware(m))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	h := &handler{svc: svc}
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/route", h.route)
		r.Post("/table", h.table)
		r.Post("/nearest", h.nearest)
		r.Post("/match", h.match)
		r.Post("/trip", h.trip)
		r.Get("/tile/{z}/{x}/{y}", h.tile)
	})

	return r
}
