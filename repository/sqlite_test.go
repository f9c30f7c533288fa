package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/flightdiversions/dashboard/internal/config"
	"github.com/flightdiversions/dashboard/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		t.Fatalf("bad date %q: %v", s, err)
	}
	return d
}

func setupTestSQLite(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "diversions.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return db
}

func TestSQLiteDB_ImportAndLoad(t *testing.T) {
	db := setupTestSQLite(t)
	ctx := context.Background()

	ord := "ORD"
	delay := -3.0
	records := []models.FlightDiversionRecord{
		{Airline: "AA", FlightDate: mustDate(t, "2020-01-01"), DivAirport: &ord, DepDelay: &delay},
		{Airline: "DL", FlightDate: mustDate(t, "2020-01-02")},
	}
	airports := []models.AirportCoordinate{
		{Code: "ORD", Latitude: 1, Longitude: 1},
		{Code: "ORD", Latitude: 41.9786, Longitude: -87.9048},
		{Code: "ATL", Latitude: 33.6367, Longitude: -84.4281},
	}

	if err := db.ReplaceAll(ctx, records, airports); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	loaded, gotAirports, err := Load(ctx, db)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("len(loaded) = %d, want 2", len(loaded))
	}
	if loaded[0].Airline != "AA" || loaded[0].DivAirport == nil || *loaded[0].DivAirport != "ORD" {
		t.Errorf("loaded[0] = %+v", loaded[0])
	}
	if loaded[0].DepDelay == nil || *loaded[0].DepDelay != -3 {
		t.Errorf("loaded[0].DepDelay = %v, want -3", loaded[0].DepDelay)
	}
	if !loaded[1].FlightDate.Equal(mustDate(t, "2020-01-02")) {
		t.Errorf("loaded[1].FlightDate = %v", loaded[1].FlightDate)
	}
	if loaded[1].DivAirport != nil || loaded[1].DepDelay != nil {
		t.Errorf("NULL columns should load as absent: %+v", loaded[1])
	}

	if len(gotAirports) != 2 {
		t.Fatalf("len(airports) = %d, want 2 (duplicate code upserted)", len(gotAirports))
	}
	for _, a := range gotAirports {
		if a.Code == "ORD" && a.Latitude != 41.9786 {
			t.Errorf("ORD latitude = %v, want last row 41.9786", a.Latitude)
		}
	}
}

func TestSQLiteDB_ReplaceAllIsIdempotent(t *testing.T) {
	db := setupTestSQLite(t)
	ctx := context.Background()

	records := []models.FlightDiversionRecord{{Airline: "AA", FlightDate: mustDate(t, "2020-01-01")}}
	for i := 0; i < 2; i++ {
		if err := db.ReplaceAll(ctx, records, nil); err != nil {
			t.Fatalf("ReplaceAll #%d failed: %v", i+1, err)
		}
	}

	loaded, err := db.LoadDiversions(ctx)
	if err != nil {
		t.Fatalf("LoadDiversions failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("len(loaded) = %d, want 1 after re-import", len(loaded))
	}
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.db")
	src, err := Open(context.Background(), &config.Config{DataSource: config.SourceSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	defer src.Close()

	if _, ok := src.(*SQLiteDB); !ok {
		t.Errorf("Open(sqlite) = %T", src)
	}
}

func TestSQLiteDB_ConnectionPragmas(t *testing.T) {
	db := setupTestSQLite(t)
	ctx := context.Background()

	var journal string
	if err := db.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journal); err != nil {
		t.Fatalf("journal_mode query failed: %v", err)
	}
	if journal != "wal" {
		t.Errorf("journal_mode = %q, want wal", journal)
	}

	var timeout int
	if err := db.db.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("busy_timeout query failed: %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}

	var fk int
	if err := db.db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("foreign_keys query failed: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}
