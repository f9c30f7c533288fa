package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flightdiversions/dashboard/internal/log"
	"github.com/flightdiversions/dashboard/models"
)

// CSVSource reads diverted_flights.csv and airports.csv style files
type CSVSource struct {
	diversionsPath string
	airportsPath   string
}

// NewCSVSource creates a source over the two CSV files
func NewCSVSource(diversionsPath, airportsPath string) *CSVSource {
	return &CSVSource{diversionsPath: diversionsPath, airportsPath: airportsPath}
}

// LoadDiversions parses the diversions file
func (s *CSVSource) LoadDiversions(ctx context.Context) ([]models.FlightDiversionRecord, error) {
	header, rows, err := readCSV(ctx, s.diversionsPath)
	if err != nil {
		return nil, err
	}
	records, err := parseDiversionRows(header, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.diversionsPath, err)
	}
	log.Infof("Loaded %d diversion records from %s", len(records), s.diversionsPath)
	return records, nil
}

// LoadAirports parses the airports file
func (s *CSVSource) LoadAirports(ctx context.Context) ([]models.AirportCoordinate, error) {
	header, rows, err := readCSV(ctx, s.airportsPath)
	if err != nil {
		return nil, err
	}
	airports, err := parseAirportRows(header, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.airportsPath, err)
	}
	log.Infof("Loaded %d airports from %s", len(airports), s.airportsPath)
	return airports, nil
}

// Close is a no-op; files are closed after each read
func (s *CSVSource) Close() error {
	return nil
}

func readCSV(ctx context.Context, path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, nil, fmt.Errorf("%s: failed to read header: %w", path, err)
	}

	var rows [][]string
	for {
		if len(rows)%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		rows = append(rows, row)
	}
	log.Debugf("Read %d rows with %d columns from %s", len(rows), len(header), path)
	return header, rows, nil
}
