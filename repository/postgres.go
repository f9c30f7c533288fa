package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flightdiversions/dashboard/internal/log"
	"github.com/flightdiversions/dashboard/models"
)

// PostgresSource reads the diverted_flights and airports tables from
// PostgreSQL. Column names are quoted since they are mixed case.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(ctx context.Context, databaseURL string) (*PostgresSource, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSource{pool: pool}, nil
}

func (p *PostgresSource) Close() error {
	p.pool.Close()
	return nil
}

func (p *PostgresSource) LoadDiversions(ctx context.Context) ([]models.FlightDiversionRecord, error) {
	query := `
		SELECT
			"Marketing_Airline_Network",
			"FlightDate"::date,
			"Div1Airport",
			"DepDelay"::double precision
		FROM diverted_flights
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query diversions: %w", err)
	}
	defer rows.Close()

	var records []models.FlightDiversionRecord
	for rows.Next() {
		var r models.FlightDiversionRecord
		var flightDate time.Time
		var divAirport *string
		if err := rows.Scan(&r.Airline, &flightDate, &divAirport, &r.DepDelay); err != nil {
			return nil, fmt.Errorf("failed to scan diversion row: %w", err)
		}
		r.FlightDate = models.DateOnly(flightDate)
		if divAirport != nil {
			r.DivAirport = models.ParseAirportCode(*divAirport)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diversion rows: %w", err)
	}

	log.Infof("Loaded %d diversion records from PostgreSQL", len(records))
	return records, nil
}

func (p *PostgresSource) LoadAirports(ctx context.Context) ([]models.AirportCoordinate, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT "AIRPORT", "LATITUDE"::double precision, "LONGITUDE"::double precision
		FROM airports
		ORDER BY "AIRPORT"
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query airports: %w", err)
	}
	defer rows.Close()

	var airports []models.AirportCoordinate
	for rows.Next() {
		var a models.AirportCoordinate
		if err := rows.Scan(&a.Code, &a.Latitude, &a.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan airport row: %w", err)
		}
		airports = append(airports, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating airport rows: %w", err)
	}

	log.Infof("Loaded %d airports from PostgreSQL", len(airports))
	return airports, nil
}
