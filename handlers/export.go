package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/flightdiversions/dashboard/models"
	"github.com/flightdiversions/dashboard/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportXLSX handles GET /api/export.xlsx
// Streams the filtered records (session filter overlaid with query params)
// as a workbook using the diverted_flights column layout.
func (h *DashboardHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	fs, _ := h.svc.Current()
	if _, err := filterFromQuery(r, &fs); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid filter parameters", err)
		return
	}

	records, err := h.svc.Records(fs)
	if err != nil {
		writeComputeError(w, err)
		return
	}

	// Build in memory so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := repository.WriteDiversionsXLSX(&buf, records, "Diversions"); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build export", err)
		return
	}

	filename := fmt.Sprintf("diversions_%s_%s.xlsx", fs.Start.Format(models.DateLayout), fs.End.Format(models.DateLayout))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
