package summary

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Handler handles HTTP requests for daily summaries
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new summary handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetDailySummary handles GET /admin/summary/{date} requests. The date is
// YYYY-MM-DD; "today" resolves to the current practice day.
func (h *Handler) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")

	var date time.Time
	if raw == "" || raw == "today" {
		date = time.Now()
	} else {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		date = parsed
	}

	report, err := h.service.GenerateDailySummary(r.Context(), date)
	if err != nil {
		h.logger.Error("failed to generate summary", "error", err, "date", raw)
		http.Error(w, "failed to generate summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}
