package config

import (
	"os"
	"strconv"
	"strings"
)

// Source kinds accepted in DATA_SOURCE
const (
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the dashboard API
type Config struct {
	// Server
	Port        string
	StaticDir   string
	CORSOrigins []string
	LogDebug    bool

	// Data source
	DataSource     string
	DiversionsPath string
	AirportsPath   string
	XLSXSheet      string
	SQLitePath     string
	DatabaseURL    string

	// Dashboard
	TopAirports     int
	MarkerScale     float64
	DefaultAirlines int
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8081"),
		StaticDir:   getEnv("STATIC_DIR", ""),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		LogDebug:    getEnvBool("LOG_DEBUG", false),

		// Data source
		DataSource:     strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		DiversionsPath: getEnv("DIVERSIONS_PATH", "data/diverted_flights.csv"),
		AirportsPath:   getEnv("AIRPORTS_PATH", "data/airports.csv"),
		XLSXSheet:      getEnv("XLSX_SHEET", ""),
		SQLitePath:     getEnv("SQLITE_DATABASE", "data/diversions.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		// Dashboard
		TopAirports:     getEnvInt("TOP_AIRPORTS", 15),
		MarkerScale:     getEnvFloat("MARKER_SCALE", 10),
		DefaultAirlines: getEnvInt("DEFAULT_AIRLINES", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
