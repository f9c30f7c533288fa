package dashboard

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"github.com/flightdiversions/dashboard/internal/metrics"
	"github.com/flightdiversions/dashboard/models"
)

// DefaultTopAirports is how many diversion airports the map shows
const DefaultTopAirports = 15

// Summarize computes the summary panel for a filtered subset.
// Delay statistics only use records that carry a delay; when none do the
// delay fields stay nil and HasDelayData is false.
func Summarize(subset []models.FlightDiversionRecord) models.SummaryMetrics {
	airports := make(map[string]struct{})
	var delays metrics.DelayStats
	samples := make([]float64, 0, len(subset))

	for _, r := range subset {
		if r.DivAirport != nil {
			airports[*r.DivAirport] = struct{}{}
		}
		if r.DepDelay != nil {
			delays.Add(*r.DepDelay)
			samples = append(samples, *r.DepDelay)
		}
	}

	summary := models.SummaryMetrics{
		TotalDiversions:   len(subset),
		DiversionAirports: len(airports),
		DelaySampleCount:  delays.Count(),
	}

	if mean, ok := delays.Mean(); ok {
		stddev, _ := delays.StdDev()
		median := medianOf(samples)

		summary.HasDelayData = true
		summary.AvgDepDelayMinutes = &mean
		summary.StdDevDepDelayMinutes = &stddev
		summary.MedianDepDelayMinutes = &median
	}

	summary.Display = models.SummaryDisplay{
		TotalDiversions:   humanize.Comma(int64(summary.TotalDiversions)),
		DiversionAirports: strconv.Itoa(summary.DiversionAirports),
		AvgDepDelay:       models.NoDataDisplay,
	}
	if summary.AvgDepDelayMinutes != nil {
		summary.Display.AvgDepDelay = fmt.Sprintf("%.1f", *summary.AvgDepDelayMinutes)
	}

	return summary
}

// medianOf sorts samples in place. Even counts average the two middle values.
func medianOf(samples []float64) float64 {
	sort.Float64s(samples)
	n := len(samples)
	if n%2 == 1 {
		return samples[n/2]
	}
	return stat.Mean(samples[n/2-1:n/2+1], nil)
}

// TopAirports ranks diversion airports by count, highest first, ties broken
// alphabetically by code, and keeps the first n. Records without a
// diversion airport are not counted. Coordinates are attached when the
// lookup knows the airport; unknown airports keep their place in the ranking.
func TopAirports(subset []models.FlightDiversionRecord, lookup *CoordinateLookup, n int) []models.AirportDiversions {
	counts := make(map[string]int)
	for _, r := range subset {
		if r.DivAirport != nil {
			counts[*r.DivAirport]++
		}
	}

	ranking := make([]models.AirportDiversions, 0, len(counts))
	for code, count := range counts {
		ranking = append(ranking, models.AirportDiversions{Airport: code, Count: count})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Count != ranking[j].Count {
			return ranking[i].Count > ranking[j].Count
		}
		return ranking[i].Airport < ranking[j].Airport
	})

	if n >= 0 && len(ranking) > n {
		ranking = ranking[:n]
	}

	for i := range ranking {
		ranking[i].Rank = i + 1
		if coord, ok := lookup.Lookup(ranking[i].Airport); ok {
			lat, lon := coord.Latitude, coord.Longitude
			ranking[i].Latitude = &lat
			ranking[i].Longitude = &lon
		}
	}
	return ranking
}

// AirlineCounts counts diversions per airline, highest first, ties broken
// by airline code. Every airline present in the subset is returned.
func AirlineCounts(subset []models.FlightDiversionRecord) []models.AirlineCount {
	counts := make(map[string]int)
	for _, r := range subset {
		counts[r.Airline]++
	}

	out := make([]models.AirlineCount, 0, len(counts))
	for airline, count := range counts {
		out = append(out, models.AirlineCount{Airline: airline, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Airline < out[j].Airline
	})
	return out
}

// BuildMap turns a ranking into map markers sized count/markerScale.
// total is the size of the filtered subset and only feeds the title.
func BuildMap(ranking []models.AirportDiversions, total int, markerScale float64) models.DiversionMap {
	if markerScale <= 0 {
		markerScale = 10
	}

	m := models.DiversionMap{
		Title:           fmt.Sprintf("Top Diversion Airports (%d diversions)", total),
		TotalDiversions: total,
		Points:          make([]models.MapPoint, 0, len(ranking)),
		Ranking:         ranking,
		Unresolved:      make([]string, 0),
	}
	if m.Ranking == nil {
		m.Ranking = make([]models.AirportDiversions, 0)
	}

	for _, a := range ranking {
		if !a.HasCoordinates() {
			m.Unresolved = append(m.Unresolved, a.Airport)
			continue
		}
		m.Points = append(m.Points, models.MapPoint{
			Airport:    a.Airport,
			Latitude:   *a.Latitude,
			Longitude:  *a.Longitude,
			Count:      a.Count,
			MarkerSize: float64(a.Count) / markerScale,
		})
	}
	return m
}

// BuildAirlineChart turns per-airline counts into bar chart series
func BuildAirlineChart(counts []models.AirlineCount, total int) models.AirlineChart {
	chart := models.AirlineChart{
		Title:      fmt.Sprintf("Diversions by Airline (%d total)", total),
		XAxisTitle: "Airline",
		YAxisTitle: "Number of Diversions",
		X:          make([]string, 0, len(counts)),
		Y:          make([]int, 0, len(counts)),
		Bars:       counts,
	}
	if chart.Bars == nil {
		chart.Bars = make([]models.AirlineCount, 0)
	}
	if total == 0 {
		chart.Message = models.NoDataMessage
	}

	for _, c := range counts {
		chart.X = append(chart.X, c.Airline)
		chart.Y = append(chart.Y, c.Count)
	}
	return chart
}
