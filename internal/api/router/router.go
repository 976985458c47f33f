// Package router assembles the HTTP surface of the scheduler.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	httpmiddleware "github.com/attunehealth/office-scheduler/internal/http/middleware"
	"github.com/attunehealth/office-scheduler/internal/office"
	"github.com/attunehealth/office-scheduler/internal/schedule"
	"github.com/attunehealth/office-scheduler/internal/summary"
	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	ScheduleHandler *schedule.Handler
	SummaryHandler  *summary.Handler
	OfficeHandler   *office.Handler
	MetricsHandler  http.Handler

	AdminAuthSecret    string
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.ScheduleHandler != nil {
			public.Post("/schedule/assign", cfg.ScheduleHandler.AssignOffice)
		}
	})

	// Admin endpoints behind JWT auth
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
		if cfg.SummaryHandler != nil {
			admin.Get("/summary/{date}", cfg.SummaryHandler.GetDailySummary)
		}
		if cfg.OfficeHandler != nil {
			admin.Get("/offices", cfg.OfficeHandler.ListOffices)
			admin.Get("/offices/{id}", cfg.OfficeHandler.GetOffice)
			admin.Put("/offices/{id}", cfg.OfficeHandler.UpsertOffice)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
