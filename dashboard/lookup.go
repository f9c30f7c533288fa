package dashboard

import (
	"strings"

	"github.com/flightdiversions/dashboard/internal/log"
	"github.com/flightdiversions/dashboard/models"
)

// CoordinateLookup resolves airport codes to coordinates.
// It is built once and never modified, so it is safe for concurrent reads.
type CoordinateLookup struct {
	byCode map[string]models.AirportCoordinate
}

// NewCoordinateLookup indexes the airports table by code.
// When a code appears twice the last row wins.
func NewCoordinateLookup(airports []models.AirportCoordinate) *CoordinateLookup {
	byCode := make(map[string]models.AirportCoordinate, len(airports))
	for _, a := range airports {
		code := strings.ToUpper(strings.TrimSpace(a.Code))
		if code == "" {
			continue
		}
		if _, dup := byCode[code]; dup {
			log.Warnf("Duplicate airport code %s in airports table, keeping last row", code)
		}
		a.Code = code
		byCode[code] = a
	}
	return &CoordinateLookup{byCode: byCode}
}

// Lookup returns the coordinates for code. ok is false for unknown codes;
// that is an expected outcome, not an error.
func (l *CoordinateLookup) Lookup(code string) (models.AirportCoordinate, bool) {
	if l == nil {
		return models.AirportCoordinate{}, false
	}
	a, ok := l.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// Len returns the number of distinct airports
func (l *CoordinateLookup) Len() int {
	if l == nil {
		return 0
	}
	return len(l.byCode)
}
