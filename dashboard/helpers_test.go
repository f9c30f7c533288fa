package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/flightdiversions/dashboard/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func record(airline, date, airport string, delay *float64) models.FlightDiversionRecord {
	r := models.FlightDiversionRecord{
		Airline:    airline,
		FlightDate: day(date),
		DepDelay:   delay,
	}
	if airport != "" {
		r.DivAirport = strPtr(airport)
	}
	return r
}

// exampleRecords is the three-row dataset used throughout the docs
func exampleRecords() []models.FlightDiversionRecord {
	return []models.FlightDiversionRecord{
		record("AA", "2020-01-01", "ORD", floatPtr(10)),
		record("AA", "2020-01-02", "ORD", floatPtr(20)),
		record("DL", "2020-01-01", "ATL", floatPtr(5)),
	}
}

func exampleAirports() []models.AirportCoordinate {
	return []models.AirportCoordinate{
		{Code: "ORD", Latitude: 41.9786, Longitude: -87.9048},
		{Code: "ATL", Latitude: 33.6367, Longitude: -84.4281},
	}
}

// largeRecords spreads n records over 20 airports, 4 airlines and 10 days.
// Airport APk receives a count that decreases with k.
func largeRecords(n int) []models.FlightDiversionRecord {
	airlines := []string{"AA", "B6", "DL", "UA"}
	var out []models.FlightDiversionRecord
	for i := 0; i < n; i++ {
		k := i % 20
		if i%3 == 0 {
			k = i % 5
		}
		date := fmt.Sprintf("2021-03-%02d", 1+i%10)
		var delay *float64
		if i%4 != 0 {
			delay = floatPtr(float64(i % 60))
		}
		airport := fmt.Sprintf("AP%02d", k)
		if i%11 == 0 {
			airport = ""
		}
		out = append(out, record(airlines[i%len(airlines)], date, airport, delay))
	}
	return out
}

func mustDataset(t *testing.T, records []models.FlightDiversionRecord, airports []models.AirportCoordinate) *Dataset {
	t.Helper()
	ds, err := NewDataset(records, airports)
	if err != nil {
		t.Fatalf("NewDataset failed: %v", err)
	}
	return ds
}
