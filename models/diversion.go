package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names used by the diverted_flights and airports tables.
// They are kept verbatim so existing data files load unchanged.
const (
	ColumnAirline     = "Marketing_Airline_Network"
	ColumnFlightDate  = "FlightDate"
	ColumnDivAirport  = "Div1Airport"
	ColumnDepDelay    = "DepDelay"
	ColumnAirportCode = "AIRPORT"
	ColumnLatitude    = "LATITUDE"
	ColumnLongitude   = "LONGITUDE"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

var (
	ErrInvalidDateRange = errors.New("start date is after end date")
	ErrMissingDate      = errors.New("start and end dates are required")
)

// flightDateLayouts are tried in order when parsing FlightDate values
var flightDateLayouts = []string{
	DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 15:04",
}

// FlightDiversionRecord is one diverted flight from the diverted_flights table
type FlightDiversionRecord struct {
	Airline    string    `db:"Marketing_Airline_Network" json:"airline"`
	FlightDate time.Time `db:"FlightDate" json:"flightDate"`

	// Nullable in the source data
	DivAirport *string  `db:"Div1Airport" json:"divAirport"`
	DepDelay   *float64 `db:"DepDelay" json:"depDelay"` // minutes
}

// Validate checks if the record has the fields every aggregation relies on
func (r *FlightDiversionRecord) Validate() error {
	if r.Airline == "" {
		return errors.New("airline code is required")
	}
	if r.FlightDate.IsZero() {
		return errors.New("flight date is required")
	}
	if r.DepDelay != nil && (math.IsNaN(*r.DepDelay) || math.IsInf(*r.DepDelay, 0)) {
		return errors.New("departure delay must be finite")
	}
	return nil
}

// AirportCoordinate is one row of the airports lookup table
type AirportCoordinate struct {
	Code      string  `db:"AIRPORT" json:"airport"`
	Latitude  float64 `db:"LATITUDE" json:"latitude"`
	Longitude float64 `db:"LONGITUDE" json:"longitude"`
}

// Validate checks the code is present and the coordinates are in range
func (a *AirportCoordinate) Validate() error {
	if a.Code == "" {
		return errors.New("airport code is required")
	}
	if a.Latitude < -90 || a.Latitude > 90 {
		return fmt.Errorf("latitude out of range for %s: must be between -90 and 90", a.Code)
	}
	if a.Longitude < -180 || a.Longitude > 180 {
		return fmt.Errorf("longitude out of range for %s: must be between -180 and 180", a.Code)
	}
	return nil
}

// FilterState is the user's current airline selection and inclusive date range
type FilterState struct {
	Airlines []string
	Start    time.Time
	End      time.Time
}

// Validate rejects missing or inverted date ranges.
// An empty airline selection is valid and simply matches nothing.
func (f FilterState) Validate() error {
	if f.Start.IsZero() || f.End.IsZero() {
		return ErrMissingDate
	}
	if DateOnly(f.Start).After(DateOnly(f.End)) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidDateRange,
			f.Start.Format(DateLayout), f.End.Format(DateLayout))
	}
	return nil
}

type filterStateJSON struct {
	Airlines []string `json:"airlines"`
	Start    string   `json:"start"`
	End      string   `json:"end"`
}

// MarshalJSON writes dates as YYYY-MM-DD
func (f FilterState) MarshalJSON() ([]byte, error) {
	airlines := f.Airlines
	if airlines == nil {
		airlines = []string{}
	}
	out := filterStateJSON{Airlines: airlines}
	if !f.Start.IsZero() {
		out.Start = f.Start.Format(DateLayout)
	}
	if !f.End.IsZero() {
		out.End = f.End.Format(DateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts any layout ParseFlightDate understands
func (f *FilterState) UnmarshalJSON(data []byte) error {
	var in filterStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var out FilterState
	out.Airlines = NormalizeAirlines(in.Airlines)
	if in.Start != "" {
		start, err := ParseFlightDate(in.Start)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
		out.Start = start
	}
	if in.End != "" {
		end, err := ParseFlightDate(in.End)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		out.End = end
	}
	*f = out
	return nil
}

// NormalizeAirlines trims and upper-cases codes, dropping blanks and duplicates
func NormalizeAirlines(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// DateOnly truncates t to its calendar day in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseFlightDate parses a FlightDate cell and drops the time of day
func ParseFlightDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range flightDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// ParseDelay parses a DepDelay cell. Blank and NA-style markers are missing
// values and return nil without an error.
func ParseDelay(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid departure delay %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, nil
	}
	return &v, nil
}

// ParseAirportCode returns nil for an absent diversion airport
func ParseAirportCode(s string) *string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null", "none":
		return nil
	}
	code := strings.ToUpper(s)
	return &code
}

// ParseCoordinate parses a latitude or longitude cell, accepting a decimal comma
func ParseCoordinate(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, errors.New("empty coordinate")
	}
	return strconv.ParseFloat(s, 64)
}
