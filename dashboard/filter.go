package dashboard

import (
	"time"

	"github.com/flightdiversions/dashboard/models"
)

// Filter returns the records whose airline is in airlines and whose flight
// date lies in [start, end], both ends inclusive at day granularity.
// An empty airline set or an inverted range yields an empty subset.
// The subset keeps the input order.
func Filter(records []models.FlightDiversionRecord, airlines []string, start, end time.Time) []models.FlightDiversionRecord {
	subset := make([]models.FlightDiversionRecord, 0)
	if len(airlines) == 0 {
		return subset
	}

	start, end = models.DateOnly(start), models.DateOnly(end)
	if start.After(end) {
		return subset
	}

	selected := make(map[string]struct{}, len(airlines))
	for _, a := range airlines {
		selected[a] = struct{}{}
	}

	for _, r := range records {
		if _, ok := selected[r.Airline]; !ok {
			continue
		}
		day := models.DateOnly(r.FlightDate)
		if day.Before(start) || day.After(end) {
			continue
		}
		subset = append(subset, r)
	}
	return subset
}

// ApplyFilter applies a FilterState to records
func ApplyFilter(records []models.FlightDiversionRecord, fs models.FilterState) []models.FlightDiversionRecord {
	return Filter(records, fs.Airlines, fs.Start, fs.End)
}
