package repository

import (
	"context"
	"fmt"

	"github.com/flightdiversions/dashboard/internal/config"
	"github.com/flightdiversions/dashboard/models"
)

// Source loads the two dashboard tables. Sources are read once at startup
// and closed right after.
type Source interface {
	LoadDiversions(ctx context.Context) ([]models.FlightDiversionRecord, error)
	LoadAirports(ctx context.Context) ([]models.AirportCoordinate, error)
	Close() error
}

// Open returns the Source selected by cfg.DataSource
func Open(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		return NewCSVSource(cfg.DiversionsPath, cfg.AirportsPath), nil
	case config.SourceXLSX:
		return NewXLSXSource(cfg.DiversionsPath, cfg.AirportsPath, cfg.XLSXSheet), nil
	case config.SourceSQLite:
		db, err := NewSQLiteDB(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.SourcePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s source", config.SourcePostgres)
		}
		return NewPostgresSource(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

// Load reads both tables from src
func Load(ctx context.Context, src Source) ([]models.FlightDiversionRecord, []models.AirportCoordinate, error) {
	records, err := src.LoadDiversions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load diversions: %w", err)
	}
	airports, err := src.LoadAirports(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load airports: %w", err)
	}
	return records, airports, nil
}
