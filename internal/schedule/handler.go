package schedule

import (
	"encoding/json"
	"net/http"

	"github.com/attunehealth/office-scheduler/pkg/logging"
)

// Handler handles HTTP requests for office assignment
type Handler struct {
	assigner *Assigner
	logger   *logging.Logger
}

// NewHandler creates a new schedule handler
func NewHandler(assigner *Assigner, logger *logging.Logger) *Handler {
	return &Handler{
		assigner: assigner,
		logger:   logger,
	}
}

// AssignOffice handles POST /schedule/assign requests
func (h *Handler) AssignOffice(w http.ResponseWriter, r *http.Request) {
	var req Request

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(Result{Success: false, Error: err.Error()})
		return
	}

	result, err := h.assigner.FindOptimalOffice(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to evaluate assignment", "error", err, "client_id", req.ClientID)
		http.Error(w, "assignment temporarily unavailable", http.StatusBadGateway)
		return
	}

	status := http.StatusOK
	if !result.Success {
		// "No office available" is expressed in the result body; 409 tells
		// the caller nothing was assigned.
		status = http.StatusConflict
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(result)
}
