package office

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Roster is the store surface the handler needs.
type Roster interface {
	List(ctx context.Context) ([]Office, error)
	Get(ctx context.Context, id ID) (*Office, error)
	Upsert(ctx context.Context, o *Office) error
}

// Handler handles HTTP requests for roster administration
type Handler struct {
	roster Roster
	norm   Normalizer
	logger *logging.Logger
}

// NewHandler creates a new office handler
func NewHandler(roster Roster, norm Normalizer, logger *logging.Logger) *Handler {
	return &Handler{
		roster: roster,
		norm:   norm,
		logger: logger,
	}
}

// ListOfficesResponse is the response for listing offices
type ListOfficesResponse struct {
	Offices []Office `json:"offices"`
	Count   int      `json:"count"`
}

// ListOffices handles GET /admin/offices requests
func (h *Handler) ListOffices(w http.ResponseWriter, r *http.Request) {
	offices, err := h.roster.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list offices", "error", err)
		http.Error(w, "failed to list offices", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListOfficesResponse{Offices: offices, Count: len(offices)})
}

// GetOffice handles GET /admin/offices/{id} requests
func (h *Handler) GetOffice(w http.ResponseWriter, r *http.Request) {
	id := h.norm.Normalize(chi.URLParam(r, "id"))

	o, err := h.roster.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "office not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get office", "error", err, "office_id", id)
		http.Error(w, "failed to get office", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(o)
}

// UpsertOffice handles PUT /admin/offices/{id} requests. The path id wins
// over any id in the body; both pass through the normalizer.
func (h *Handler) UpsertOffice(w http.ResponseWriter, r *http.Request) {
	id := h.norm.Normalize(chi.URLParam(r, "id"))

	var o Office
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	o.ID = id

	if err := h.roster.Upsert(r.Context(), &o); err != nil {
		h.logger.Error("failed to upsert office", "error", err, "office_id", id)
		http.Error(w, "failed to save office", http.StatusInternalServerError)
		return
	}

	h.logger.Info("office saved", "office_id", id, "in_service", o.InService)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(o)
}
