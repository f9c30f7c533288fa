package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/flightdiversions/dashboard/internal/config"
	"github.com/flightdiversions/dashboard/models"
)

const diversionsCSV = "\ufeffMarketing_Airline_Network,Year,FlightDate,Origin,Div1Airport,DepDelay\n" +
	"AA,2020,2020-01-01,DFW,ORD,10\n" +
	"AA,2020,2020-01-02,DFW,ORD,20\n" +
	"DL,2020,2020-01-01 00:00:00,JFK,ATL,5\n" +
	"\n" +
	"UA,2020,1/3/2020,SFO,,NA\n"

const airportsCSV = "AIRPORT,CITY,LATITUDE,LONGITUDE\n" +
	"ORD,Chicago,41.9786,-87.9048\n" +
	"ATL,Atlanta,33.6367,-84.4281\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestCSVSource_Load(t *testing.T) {
	dir := t.TempDir()
	src := NewCSVSource(
		writeFile(t, dir, "diverted_flights.csv", diversionsCSV),
		writeFile(t, dir, "airports.csv", airportsCSV),
	)
	defer src.Close()

	records, airports, err := Load(context.Background(), src)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("len(records) = %d, want 4 (blank line skipped)", len(records))
	}
	if records[0].Airline != "AA" || records[0].FlightDate.Format(models.DateLayout) != "2020-01-01" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[2].FlightDate.Format(models.DateLayout) != "2020-01-01" {
		t.Errorf("datetime FlightDate should be truncated, got %v", records[2].FlightDate)
	}

	ua := records[3]
	if ua.DivAirport != nil {
		t.Errorf("empty Div1Airport should be absent, got %q", *ua.DivAirport)
	}
	if ua.DepDelay != nil {
		t.Errorf("NA DepDelay should be missing, got %v", *ua.DepDelay)
	}
	if ua.FlightDate.Format(models.DateLayout) != "2020-01-03" {
		t.Errorf("US date not parsed: %v", ua.FlightDate)
	}

	if len(airports) != 2 || airports[0].Code != "ORD" || airports[0].Latitude != 41.9786 {
		t.Errorf("airports = %+v", airports)
	}
}

func TestCSVSource_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	src := NewCSVSource(
		writeFile(t, dir, "d.csv", "FlightDate,Div1Airport,DepDelay\n2020-01-01,ORD,1\n"),
		writeFile(t, dir, "a.csv", airportsCSV),
	)

	_, err := src.LoadDiversions(context.Background())
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
}

func TestCSVSource_MalformedValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad date":   "Marketing_Airline_Network,FlightDate,Div1Airport,DepDelay\nAA,someday,ORD,1\n",
		"bad delay":  "Marketing_Airline_Network,FlightDate,Div1Airport,DepDelay\nAA,2020-01-01,ORD,late\n",
		"no airline": "Marketing_Airline_Network,FlightDate,Div1Airport,DepDelay\n,2020-01-01,ORD,1\n",
	}
	for name, content := range cases {
		src := NewCSVSource(writeFile(t, dir, "d.csv", content), "")
		if _, err := src.LoadDiversions(context.Background()); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	src := NewCSVSource("", writeFile(t, dir, "a.csv", "AIRPORT,LATITUDE,LONGITUDE\nORD,north,-87\n"))
	if _, err := src.LoadAirports(context.Background()); err == nil {
		t.Error("bad latitude: expected an error")
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv"), "")
	if _, err := src.LoadDiversions(context.Background()); err == nil {
		t.Error("missing file should fail")
	}
}

func TestCSVSource_EmptyFile(t *testing.T) {
	src := NewCSVSource(writeFile(t, t.TempDir(), "empty.csv", ""), "")
	if _, err := src.LoadDiversions(context.Background()); err == nil {
		t.Error("empty file should fail")
	}
}

func TestOpen_SelectsSource(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, &config.Config{DataSource: config.SourceCSV})
	if err != nil {
		t.Fatalf("Open(csv) failed: %v", err)
	}
	if _, ok := src.(*CSVSource); !ok {
		t.Errorf("Open(csv) = %T", src)
	}

	src, err = Open(ctx, &config.Config{DataSource: config.SourceXLSX})
	if err != nil {
		t.Fatalf("Open(xlsx) failed: %v", err)
	}
	if _, ok := src.(*XLSXSource); !ok {
		t.Errorf("Open(xlsx) = %T", src)
	}

	if _, err := Open(ctx, &config.Config{DataSource: config.SourcePostgres}); err == nil {
		t.Error("postgres without DATABASE_URL should fail")
	}
	if _, err := Open(ctx, &config.Config{DataSource: "parquet"}); err == nil {
		t.Error("unknown source should fail")
	}
}
