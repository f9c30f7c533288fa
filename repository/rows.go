package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flightdiversions/dashboard/models"
)

var ErrMissingColumn = errors.New("missing required column")

var (
	diversionColumns = []string{models.ColumnAirline, models.ColumnFlightDate, models.ColumnDivAirport, models.ColumnDepDelay}
	airportColumns   = []string{models.ColumnAirportCode, models.ColumnLatitude, models.ColumnLongitude}
)

// makeIndex maps header names to column positions and checks that every
// required column is present. A leading UTF-8 BOM on the first header is
// ignored.
func makeIndex(header []string, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		idx[h] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func getField(row []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseDiversionRows converts a header plus data rows into records.
// line numbers in errors are 1-based and count the header.
func parseDiversionRows(header []string, rows [][]string) ([]models.FlightDiversionRecord, error) {
	idx, err := makeIndex(header, diversionColumns)
	if err != nil {
		return nil, err
	}

	records := make([]models.FlightDiversionRecord, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		r, err := parseDiversionRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func parseDiversionRow(row []string, idx map[string]int) (models.FlightDiversionRecord, error) {
	airline := strings.ToUpper(getField(row, idx, models.ColumnAirline))
	if airline == "" {
		return models.FlightDiversionRecord{}, fmt.Errorf("empty %s", models.ColumnAirline)
	}

	date, err := models.ParseFlightDate(getField(row, idx, models.ColumnFlightDate))
	if err != nil {
		return models.FlightDiversionRecord{}, fmt.Errorf("%s: %w", models.ColumnFlightDate, err)
	}

	delay, err := models.ParseDelay(getField(row, idx, models.ColumnDepDelay))
	if err != nil {
		return models.FlightDiversionRecord{}, fmt.Errorf("%s: %w", models.ColumnDepDelay, err)
	}

	return models.FlightDiversionRecord{
		Airline:    airline,
		FlightDate: date,
		DivAirport: models.ParseAirportCode(getField(row, idx, models.ColumnDivAirport)),
		DepDelay:   delay,
	}, nil
}

func parseAirportRows(header []string, rows [][]string) ([]models.AirportCoordinate, error) {
	idx, err := makeIndex(header, airportColumns)
	if err != nil {
		return nil, err
	}

	airports := make([]models.AirportCoordinate, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		code := strings.ToUpper(getField(row, idx, models.ColumnAirportCode))
		if code == "" {
			return nil, fmt.Errorf("line %d: empty %s", i+2, models.ColumnAirportCode)
		}
		lat, err := models.ParseCoordinate(getField(row, idx, models.ColumnLatitude))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", i+2, models.ColumnLatitude, err)
		}
		lon, err := models.ParseCoordinate(getField(row, idx, models.ColumnLongitude))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", i+2, models.ColumnLongitude, err)
		}
		airports = append(airports, models.AirportCoordinate{Code: code, Latitude: lat, Longitude: lon})
	}
	return airports, nil
}
