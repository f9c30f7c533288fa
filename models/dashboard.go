package models

import (
	"time"

	"github.com/google/uuid"
)

// NoDataDisplay is shown in place of a number that cannot be computed
const NoDataDisplay = "N/A"

// NoDataMessage is attached to charts rendered from an empty subset
const NoDataMessage = "No data for selected filters"

// SummaryMetrics is the numbers block at the top of the dashboard.
// Delay fields are nil when no record in the subset has a delay value.
type SummaryMetrics struct {
	TotalDiversions   int  `json:"totalDiversions"`
	DiversionAirports int  `json:"diversionAirports"`
	HasDelayData      bool `json:"hasDelayData"`
	DelaySampleCount  int  `json:"delaySampleCount"`

	AvgDepDelayMinutes    *float64 `json:"avgDepDelayMinutes"`
	StdDevDepDelayMinutes *float64 `json:"stdDevDepDelayMinutes"`
	MedianDepDelayMinutes *float64 `json:"medianDepDelayMinutes"`

	Display SummaryDisplay `json:"display"`
}

// SummaryDisplay holds the pre-formatted strings for the summary panel
type SummaryDisplay struct {
	TotalDiversions   string `json:"totalDiversions"`   // "1,234"
	DiversionAirports string `json:"diversionAirports"` // "87"
	AvgDepDelay       string `json:"avgDepDelay"`       // "15.0" or NoDataDisplay
}

// AirportDiversions is one entry of the top diversion airport ranking.
// Coordinates are nil when the airport is missing from the lookup table.
type AirportDiversions struct {
	Rank      int      `json:"rank"`
	Airport   string   `json:"airport"`
	Count     int      `json:"count"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether the airport can be placed on the map
func (a AirportDiversions) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// MapPoint is a single marker on the diversion map
type MapPoint struct {
	Airport    string  `json:"airport"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Count      int     `json:"count"`
	MarkerSize float64 `json:"markerSize"`
}

// DiversionMap is the payload for the geographic scatter of top airports
type DiversionMap struct {
	Title           string              `json:"title"`
	TotalDiversions int                 `json:"totalDiversions"`
	Points          []MapPoint          `json:"points"`
	Ranking         []AirportDiversions `json:"ranking"`
	Unresolved      []string            `json:"unresolved"` // ranked airports without coordinates
}

// AirlineCount is the number of diversions for one marketing airline
type AirlineCount struct {
	Airline string `json:"airline"`
	Count   int    `json:"count"`
}

// AirlineChart is the bar chart series for diversions per airline
type AirlineChart struct {
	Title      string         `json:"title"`
	XAxisTitle string         `json:"xAxisTitle"`
	YAxisTitle string         `json:"yAxisTitle"`
	X          []string       `json:"x"`
	Y          []int          `json:"y"`
	Bars       []AirlineCount `json:"bars"`
	Message    string         `json:"message,omitempty"`
}

// DashboardPayload is everything the frontend needs to redraw after a filter change
type DashboardPayload struct {
	SnapshotID uuid.UUID      `json:"snapshotId"`
	Filter     FilterState    `json:"filter"`
	Summary    SummaryMetrics `json:"summary"`
	Map        DiversionMap   `json:"map"`
	Airlines   AirlineChart   `json:"airlines"`
	ComputedAt time.Time      `json:"computedAt"`
}

// FilterOptions describes the choices offered by the filter controls
type FilterOptions struct {
	Airlines        []string `json:"airlines"`
	DefaultAirlines []string `json:"defaultAirlines"`
	MinDate         string   `json:"minDate"`
	MaxDate         string   `json:"maxDate"`
}
