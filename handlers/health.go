package handlers

import (
	"net/http"

	"github.com/flightdiversions/dashboard/models"
)

// DatasetStatusProvider reports on the tables loaded at startup
type DatasetStatusProvider interface {
	Status(source string) models.DatasetStatus
}

// HealthHandler handles HTTP requests for service health
type HealthHandler struct {
	provider DatasetStatusProvider
	source   string
}

// NewHealthHandler creates a new handler reporting on provider's dataset
func NewHealthHandler(provider DatasetStatusProvider, source string) *HealthHandler {
	return &HealthHandler{provider: provider, source: source}
}

// GetHealth handles GET /health
// Returns the loaded dataset's size and date bounds
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := h.provider.Status(h.source)
	if status.Records == 0 {
		status.Status = "empty"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// GetHealthz handles GET /healthz
func (h *HealthHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
