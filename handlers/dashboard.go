package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/flightdiversions/dashboard/models"
)

// DashboardService defines the operations the dashboard endpoints need
type DashboardService interface {
	Options() models.FilterOptions
	Current() (models.FilterState, *models.DashboardPayload)
	Compute(fs models.FilterState) (*models.DashboardPayload, error)
	Update(fs models.FilterState) (*models.DashboardPayload, error)
	Records(fs models.FilterState) ([]models.FlightDiversionRecord, error)
}

// DashboardHandler handles HTTP requests for the dashboard views
type DashboardHandler struct {
	svc DashboardService
}

// NewDashboardHandler creates a new handler backed by svc
func NewDashboardHandler(svc DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// maxFilterBody caps the PUT /api/filter request body
const maxFilterBody = 64 << 10

// GetOptions handles GET /api/options
// Returns the airline choices, the default selection and the date bounds
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	// Options never change while the process runs
	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, h.svc.Options())
}

// GetDashboard handles GET /api/dashboard
// Without query params it returns the session payload; with airlines/start/end
// it computes an ad-hoc payload without changing the session.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.payloadFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// GetSummary handles GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.payloadFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, payload.Summary)
}

// GetMap handles GET /api/dashboard/map
func (h *DashboardHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.payloadFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, payload.Map)
}

// GetAirlines handles GET /api/dashboard/airlines
func (h *DashboardHandler) GetAirlines(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.payloadFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, payload.Airlines)
}

// UpdateFilter handles PUT /api/filter
// The body is a FilterState; omitted (or null) fields keep their session value.
// Returns the recomputed payload.
func (h *DashboardHandler) UpdateFilter(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFilterBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(body, &present); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	var req models.FilterState
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter state", err)
		return
	}

	fs, _ := h.svc.Current()
	if raw, ok := present["airlines"]; ok && string(raw) != "null" {
		fs.Airlines = req.Airlines
	}
	if !req.Start.IsZero() {
		fs.Start = req.Start
	}
	if !req.End.IsZero() {
		fs.End = req.End
	}

	payload, err := h.svc.Update(fs)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, payload)
}

// payloadFor resolves the payload for a GET request, writing the error
// response itself when it fails.
func (h *DashboardHandler) payloadFor(w http.ResponseWriter, r *http.Request) (*models.DashboardPayload, bool) {
	fs, payload := h.svc.Current()

	adHoc, err := filterFromQuery(r, &fs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter parameters", err)
		return nil, false
	}
	if !adHoc {
		w.Header().Set("Cache-Control", "no-store")
		return payload, true
	}

	payload, err = h.svc.Compute(fs)
	if err != nil {
		writeComputeError(w, err)
		return nil, false
	}
	// Ad-hoc results depend only on the query and the immutable dataset
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Header().Set("Vary", "Accept-Encoding")
	return payload, true
}

// filterFromQuery overlays airlines/start/end query params onto fs.
// It reports whether any of them was present.
func filterFromQuery(r *http.Request, fs *models.FilterState) (bool, error) {
	q := r.URL.Query()
	present := false

	if values, ok := q["airlines"]; ok {
		present = true
		var codes []string
		for _, v := range values {
			codes = append(codes, strings.Split(v, ",")...)
		}
		fs.Airlines = models.NormalizeAirlines(codes)
	}

	start, end := q.Get("start"), q.Get("end")
	if start != "" || end != "" {
		present = true
	}
	return present, applyDates(fs, start, end)
}

func applyDates(fs *models.FilterState, start, end string) error {
	if start != "" {
		d, err := models.ParseFlightDate(start)
		if err != nil {
			return err
		}
		fs.Start = d
	}
	if end != "" {
		d, err := models.ParseFlightDate(end)
		if err != nil {
			return err
		}
		fs.End = d
	}
	return nil
}

func writeComputeError(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrInvalidDateRange) || errors.Is(err, models.ErrMissingDate) {
		writeError(w, http.StatusBadRequest, "Invalid filter state", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to compute dashboard", err)
}
