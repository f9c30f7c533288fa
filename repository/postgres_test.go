package repository

import (
	"context"
	"os"
	"testing"
	"time"
)

func setupTestPostgres(t *testing.T) *PostgresSource {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	src, err := NewPostgresSource(context.Background(), databaseURL)
	if err != nil {
		t.Fatalf("Failed to create test source: %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestPostgresSource_Load(t *testing.T) {
	src := setupTestPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	records, airports, err := Load(ctx, src)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) == 0 {
		t.Log("Warning: No diversion records returned. Database may be empty.")
		return
	}
	t.Logf("Loaded %d diversions and %d airports", len(records), len(airports))

	for i, r := range records {
		if err := r.Validate(); err != nil {
			t.Fatalf("record %d failed validation: %v", i, err)
		}
		if r.FlightDate.Hour() != 0 || r.FlightDate.Location() != time.UTC {
			t.Fatalf("record %d FlightDate not truncated to UTC day: %v", i, r.FlightDate)
		}
	}
	for _, a := range airports {
		if err := a.Validate(); err != nil {
			t.Errorf("airport %s failed validation: %v", a.Code, err)
		}
	}
}
