// Package dashboard holds the filter and aggregation pipeline behind the
// flight diversion dashboard: a read-only Dataset loaded at startup, the
// Filter engine, the three aggregators and the Binder that recomputes the
// display payloads whenever the filter state changes.
package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/flightdiversions/dashboard/models"
)

var ErrEmptyDataset = errors.New("dataset has no diversion records")

// Dataset is the process-wide, read-only view of both source tables
type Dataset struct {
	records  []models.FlightDiversionRecord
	lookup   *CoordinateLookup
	airlines []string
	minDate  time.Time
	maxDate  time.Time
	loadedAt time.Time
}

// NewDataset validates and indexes the loaded tables. Records keep their
// source order; flight dates are truncated to the calendar day.
func NewDataset(records []models.FlightDiversionRecord, airports []models.AirportCoordinate) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	owned := make([]models.FlightDiversionRecord, len(records))
	seen := make(map[string]struct{})
	ds := &Dataset{loadedAt: time.Now().UTC()}

	for i, r := range records {
		r.Airline = strings.ToUpper(strings.TrimSpace(r.Airline))
		r.FlightDate = models.DateOnly(r.FlightDate)
		if r.DivAirport != nil {
			r.DivAirport = models.ParseAirportCode(*r.DivAirport)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("invalid diversion record %d: %w", i+1, err)
		}
		owned[i] = r

		if _, ok := seen[r.Airline]; !ok {
			seen[r.Airline] = struct{}{}
			ds.airlines = append(ds.airlines, r.Airline)
		}
		if ds.minDate.IsZero() || r.FlightDate.Before(ds.minDate) {
			ds.minDate = r.FlightDate
		}
		if r.FlightDate.After(ds.maxDate) {
			ds.maxDate = r.FlightDate
		}
	}
	sort.Strings(ds.airlines)

	for i := range airports {
		if err := airports[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid airport row %d: %w", i+1, err)
		}
	}

	ds.records = owned
	ds.lookup = NewCoordinateLookup(airports)
	return ds, nil
}

// Records returns the full record set. Callers must not modify it.
func (d *Dataset) Records() []models.FlightDiversionRecord {
	return d.records
}

// Lookup returns the airport coordinate lookup
func (d *Dataset) Lookup() *CoordinateLookup {
	return d.lookup
}

// Airlines returns the distinct airline codes in sorted order
func (d *Dataset) Airlines() []string {
	out := make([]string, len(d.airlines))
	copy(out, d.airlines)
	return out
}

// DateBounds returns the earliest and latest flight dates
func (d *Dataset) DateBounds() (time.Time, time.Time) {
	return d.minDate, d.maxDate
}

// DefaultFilter selects the first n airlines in sorted order over the
// whole date range.
func (d *Dataset) DefaultFilter(n int) models.FilterState {
	if n > len(d.airlines) {
		n = len(d.airlines)
	}
	if n < 0 {
		n = 0
	}
	selected := make([]string, n)
	copy(selected, d.airlines[:n])
	return models.FilterState{
		Airlines: selected,
		Start:    d.minDate,
		End:      d.maxDate,
	}
}

// Options describes the filter controls for this dataset
func (d *Dataset) Options(defaultAirlines int) models.FilterOptions {
	def := d.DefaultFilter(defaultAirlines)
	return models.FilterOptions{
		Airlines:        d.Airlines(),
		DefaultAirlines: def.Airlines,
		MinDate:         d.minDate.Format(models.DateLayout),
		MaxDate:         d.maxDate.Format(models.DateLayout),
	}
}

// Status summarizes the dataset for the health endpoint
func (d *Dataset) Status(source string) models.DatasetStatus {
	return models.DatasetStatus{
		Status:   "ok",
		Source:   source,
		Records:  len(d.records),
		Airports: d.lookup.Len(),
		Airlines: len(d.airlines),
		MinDate:  d.minDate.Format(models.DateLayout),
		MaxDate:  d.maxDate.Format(models.DateLayout),
		LoadedAt: d.loadedAt,
	}
}
