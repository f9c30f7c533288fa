package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"
	"time"

	"github.com/flightdiversions/dashboard/internal/log"
	"github.com/flightdiversions/dashboard/models"

	_ "modernc.org/sqlite"
)

// schemaSQL is the single source of truth for the SQLite schema.
//
//go:embed schema.sql
var schemaSQL string

// SQLiteDB wraps a SQL database connection for SQLite.
// It is both a Source for the API and the import target for the CLI.
type SQLiteDB struct {
	db      *sql.DB
	path    string
	writeMu sync.Mutex // Serializes imports
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Infof("Connected to SQLite database: %s", dbPath)
	return &SQLiteDB{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// EnsureSchema creates tables if they don't exist
func (s *SQLiteDB) EnsureSchema(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	log.Info("Database schema ensured (from embedded schema.sql)")
	return nil
}

// LoadDiversions returns every row of diverted_flights in insertion order
func (s *SQLiteDB) LoadDiversions(ctx context.Context) ([]models.FlightDiversionRecord, error) {
	query := `
		SELECT
			Marketing_Airline_Network,
			FlightDate,
			Div1Airport,
			DepDelay
		FROM diverted_flights
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query diversions: %w", err)
	}
	defer rows.Close()

	var records []models.FlightDiversionRecord
	for rows.Next() {
		var r models.FlightDiversionRecord
		// SQLite stores dates as YYYY-MM-DD text
		var dateStr string
		var divAirport sql.NullString
		var depDelay sql.NullFloat64
		if err := rows.Scan(&r.Airline, &dateStr, &divAirport, &depDelay); err != nil {
			return nil, fmt.Errorf("failed to scan diversion row: %w", err)
		}

		r.FlightDate, err = models.ParseFlightDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("diversion row %d: %w", len(records)+1, err)
		}
		if divAirport.Valid {
			r.DivAirport = models.ParseAirportCode(divAirport.String)
		}
		if depDelay.Valid {
			v := depDelay.Float64
			r.DepDelay = &v
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating diversion rows: %w", err)
	}

	log.Infof("Loaded %d diversion records from %s", len(records), s.path)
	return records, nil
}

// LoadAirports returns the airports table
func (s *SQLiteDB) LoadAirports(ctx context.Context) ([]models.AirportCoordinate, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT AIRPORT, LATITUDE, LONGITUDE FROM airports ORDER BY AIRPORT`)
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

	log.Infof("Loaded %d airports from %s", len(airports), s.path)
	return airports, nil
}

// ReplaceAll swaps the contents of both tables in a single transaction
func (s *SQLiteDB) ReplaceAll(ctx context.Context, records []models.FlightDiversionRecord, airports []models.AirportCoordinate) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM diverted_flights"); err != nil {
		return fmt.Errorf("failed to clear diversions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM airports"); err != nil {
		return fmt.Errorf("failed to clear airports: %w", err)
	}

	divStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diverted_flights (Marketing_Airline_Network, FlightDate, Div1Airport, DepDelay)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare diversion insert: %w", err)
	}
	defer divStmt.Close()

	for i, r := range records {
		var divAirport, depDelay interface{}
		if r.DivAirport != nil {
			divAirport = *r.DivAirport
		}
		if r.DepDelay != nil {
			depDelay = *r.DepDelay
		}
		if _, err := divStmt.ExecContext(ctx, r.Airline, r.FlightDate.Format(models.DateLayout), divAirport, depDelay); err != nil {
			return fmt.Errorf("failed to insert diversion %d: %w", i+1, err)
		}
	}

	// Upsert keeps the last row for duplicate codes, like the in-memory lookup
	airportStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO airports (AIRPORT, LATITUDE, LONGITUDE) VALUES (?, ?, ?)
		ON CONFLICT (AIRPORT) DO UPDATE SET
			LATITUDE = excluded.LATITUDE,
			LONGITUDE = excluded.LONGITUDE
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare airport insert: %w", err)
	}
	defer airportStmt.Close()

	for _, a := range airports {
		if _, err := airportStmt.ExecContext(ctx, a.Code, a.Latitude, a.Longitude); err != nil {
			return fmt.Errorf("failed to insert airport %s: %w", a.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Infof("Imported %d diversions and %d airports into %s", len(records), len(airports), s.path)
	return nil
}
