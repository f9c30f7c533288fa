package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATA_SOURCE", "TOP_AIRPORTS", "MARKER_SCALE", "DEFAULT_AIRLINES", "CORS_ORIGINS", "LOG_DEBUG",
		"DIVERSIONS_PATH", "AIRPORTS_PATH", "SQLITE_DATABASE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port = %q, want 8081", cfg.Port)
	}
	if cfg.DataSource != SourceCSV {
		t.Errorf("DataSource = %q, want %q", cfg.DataSource, SourceCSV)
	}
	if cfg.TopAirports != 15 {
		t.Errorf("TopAirports = %d, want 15", cfg.TopAirports)
	}
	if cfg.MarkerScale != 10 {
		t.Errorf("MarkerScale = %v, want 10", cfg.MarkerScale)
	}
	if cfg.DefaultAirlines != 3 {
		t.Errorf("DefaultAirlines = %d, want 3", cfg.DefaultAirlines)
	}
	if cfg.LogDebug {
		t.Error("LogDebug should default to false")
	}

	// Defaults are relative to the repository root, where the server runs
	for name, got := range map[string]string{
		"DiversionsPath": cfg.DiversionsPath,
		"AirportsPath":   cfg.AirportsPath,
		"SQLitePath":     cfg.SQLitePath,
	} {
		if !strings.HasPrefix(got, "data/") {
			t.Errorf("%s = %q, want a path under data/", name, got)
		}
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_SOURCE", "SQLite")
	t.Setenv("TOP_AIRPORTS", "5")
	t.Setenv("MARKER_SCALE", "2.5")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("LOG_DEBUG", "true")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.DataSource != SourceSQLite {
		t.Errorf("DataSource = %q, want %q", cfg.DataSource, SourceSQLite)
	}
	if cfg.TopAirports != 5 {
		t.Errorf("TopAirports = %d, want 5", cfg.TopAirports)
	}
	if cfg.MarkerScale != 2.5 {
		t.Errorf("MarkerScale = %v, want 2.5", cfg.MarkerScale)
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	if !cfg.LogDebug {
		t.Error("LogDebug should be true")
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("TOP_AIRPORTS", "-3")
	t.Setenv("MARKER_SCALE", "abc")

	cfg := Load()

	if cfg.TopAirports != 15 {
		t.Errorf("TopAirports = %d, want fallback 15", cfg.TopAirports)
	}
	if cfg.MarkerScale != 10 {
		t.Errorf("MarkerScale = %v, want fallback 10", cfg.MarkerScale)
	}
}
