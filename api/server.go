/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/orders/*       Order management and delivery
  /api/forecast       Delivery prediction
  /api/occupancy      Per-day committed capacity
  /api/production/*   Day-by-day report and xlsx export
  /api/capacity/*     Configuration and monthly totals
  /api/checklist      Per (order, day) checklist entries

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Order routes
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.CreateOrder)
			r.Get("/{id}", h.GetOrder)
			r.Put("/{id}", h.UpdateOrder)
			r.Delete("/{id}", h.DeleteOrder)
			r.Post("/{id}/deliver", h.DeliverOrder)
		})

		// Planning routes
		r.Post("/forecast", h.Forecast)
		r.Get("/occupancy", h.GetOccupancy)
		r.Route("/production", func(r chi.Router) {
			r.Get("/", h.GetProduction)
			r.Get("/{date}/export", h.ExportProduction)
		})

		// Capacity routes
		r.Route("/capacity", func(r chi.Router) {
			r.Get("/", h.GetCapacity)
			r.Put("/", h.UpdateCapacity)
			r.Get("/{year}/{month}", h.GetMonthTotals)
		})

		// Checklist routes
		r.Route("/checklist", func(r chi.Router) {
			r.Get("/", h.GetChecklist)
			r.Post("/", h.UpsertChecklist)
		})
	})

	return r
}
