package routes

import (
	"net/http"

	"github.com/AnshRaj112/portfolio-backend/internal/handlers"
	"github.com/AnshRaj112/portfolio-backend/internal/metrics"
	"github.com/AnshRaj112/portfolio-backend/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// Dependencies are built once in main and shared by every handler.
type Dependencies struct {
	Admin          *handlers.AdminHandler
	Tracking       *handlers.TrackingHandler
	Live           *handlers.LiveHandler
	Health         http.HandlerFunc
	AdminToken     string
	AllowedOrigins []string
	ClientIP       func(*http.Request) string
	Production     bool
}

func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.CORS(deps.AllowedOrigins))
	if deps.Production {
		r.Use(middleware.SecurityHeaders)
	}
	// Runs before routing, so unknown /api/admin paths get 401 too.
	r.Use(middleware.AdminGate(deps.AdminToken))

	r.Get("/health", deps.Health)
	// Scrapers send the admin token as a bearer credential.
	r.With(middleware.RequireAdmin(deps.AdminToken)).Handle("/metrics", metrics.Handler())

	// Public tracking, called from the site on every navigation
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(middleware.TrackingRateLimitRPS, middleware.TrackingRateLimitBurst, deps.ClientIP))
		r.Post("/api/track/visit", deps.Tracking.TrackVisit)
		r.Post("/api/track/click", deps.Tracking.TrackClick)
	})

	// Admin analytics
	r.Get("/api/admin/visitors", deps.Admin.GetVisitors)
	r.Post("/api/admin/delete-visitors", deps.Admin.DeleteVisitors)
	r.Get("/api/admin/check-deletion", deps.Admin.CheckDeletion)
	r.Get("/api/admin/click-events", deps.Admin.GetClickEvents)
	r.Post("/api/admin/delete-click-events", deps.Admin.DeleteClickEvents)

	// Live visitor feed for the dashboard
	r.Get("/ws/admin/visitors", deps.Live.ServeWS)

	return r
}
