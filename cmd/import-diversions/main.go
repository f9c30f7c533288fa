package main

import (
	"context"
	"flag"
	"path/filepath"
	"strings"

	"github.com/flightdiversions/dashboard/internal/log"
	"github.com/flightdiversions/dashboard/repository"
)

func main() {
	// Command line flags
	dbPath := flag.String("db", "data/diversions.db", "Path to SQLite database")
	diversionsPath := flag.String("diversions", "data/diverted_flights.csv", "Diverted flights file (CSV or XLSX)")
	airportsPath := flag.String("airports", "data/airports.csv", "Airport coordinates file (CSV or XLSX)")
	format := flag.String("format", "", "Input format: csv or xlsx (default: from the diversions file extension)")
	sheet := flag.String("sheet", "", "Worksheet to read from XLSX inputs (default: first sheet)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		panic(err)
	}
	defer log.Sync()

	kind := strings.ToLower(*format)
	if kind == "" {
		kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(*diversionsPath)), ".")
	}

	var src repository.Source
	switch kind {
	case "csv":
		src = repository.NewCSVSource(*diversionsPath, *airportsPath)
	case "xlsx":
		src = repository.NewXLSXSource(*diversionsPath, *airportsPath, *sheet)
	default:
		log.Fatalf("Unsupported input format %q (want csv or xlsx)", kind)
	}
	defer src.Close()

	ctx := context.Background()

	log.Infof("Reading %s input: %s, %s", kind, *diversionsPath, *airportsPath)
	records, airports, err := repository.Load(ctx, src)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	log.Infof("Parsed %d diverted flights and %d airports", len(records), len(airports))

	database, err := repository.NewSQLiteDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Ensure schema exists (creates tables if needed)
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	if err := database.ReplaceAll(ctx, records, airports); err != nil {
		log.Fatalf("Failed to import: %v", err)
	}
	log.Infof("SUCCESS: imported into %s", *dbPath)
}
