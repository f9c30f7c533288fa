package repository

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/flightdiversions/dashboard/internal/log"
	"github.com/flightdiversions/dashboard/models"
)

// XLSXSource reads the two tables from Excel workbooks with the same
// header row as the CSV files.
type XLSXSource struct {
	diversionsPath string
	airportsPath   string
	sheet          string // empty means the first sheet
}

// NewXLSXSource creates a source over two workbooks
func NewXLSXSource(diversionsPath, airportsPath, sheet string) *XLSXSource {
	return &XLSXSource{diversionsPath: diversionsPath, airportsPath: airportsPath, sheet: sheet}
}

// LoadDiversions parses the diversions workbook
func (s *XLSXSource) LoadDiversions(ctx context.Context) ([]models.FlightDiversionRecord, error) {
	header, rows, err := readSheet(ctx, s.diversionsPath, s.sheet)
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

// LoadAirports parses the airports workbook
func (s *XLSXSource) LoadAirports(ctx context.Context) ([]models.AirportCoordinate, error) {
	header, rows, err := readSheet(ctx, s.airportsPath, s.sheet)
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

// Close is a no-op; workbooks are closed after each read
func (s *XLSXSource) Close() error {
	return nil
}

func readSheet(ctx context.Context, path, sheet string) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: failed to read sheet %q: %w", path, sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s: sheet %q is empty", path, sheet)
	}
	log.Debugf("Read %d rows from sheet %q of %s", len(rows)-1, sheet, path)
	return rows[0], rows[1:], nil
}

// WriteDiversionsXLSX writes records as a single sheet workbook with the
// diverted_flights column headers.
func WriteDiversionsXLSX(w io.Writer, records []models.FlightDiversionRecord, sheetName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := []interface{}{models.ColumnAirline, models.ColumnFlightDate, models.ColumnDivAirport, models.ColumnDepDelay}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, r := range records {
		row := []interface{}{r.Airline, r.FlightDate.Format(models.DateLayout), "", ""}
		if r.DivAirport != nil {
			row[2] = *r.DivAirport
		}
		if r.DepDelay != nil {
			row[3] = *r.DepDelay
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	if sheetName != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	index, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	_, err = f.WriteTo(w)
	return err
}
