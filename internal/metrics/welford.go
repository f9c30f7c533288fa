package metrics

import "math"

// DelayStats accumulates departure delays using Welford's online algorithm.
// Mean and standard deviation are maintained in a single pass without
// holding the observations.
type DelayStats struct {
	count int     // observations seen
	mean  float64 // running mean
	m2    float64 // sum of squared differences from mean
}

// Add records one delay observation in minutes.
// Reference: https://en.wikipedia.org/wiki/Algorithms_for_calculating_variance#Welford's_online_algorithm
func (d *DelayStats) Add(minutes float64) {
	d.count++
	delta := minutes - d.mean
	d.mean += delta / float64(d.count)
	delta2 := minutes - d.mean
	d.m2 += delta * delta2
}

// Count returns the number of observations.
func (d *DelayStats) Count() int {
	return d.count
}

// Mean returns the running mean. ok is false when nothing was observed,
// so callers can tell "no data" apart from a genuine zero average.
func (d *DelayStats) Mean() (mean float64, ok bool) {
	if d.count == 0 {
		return 0, false
	}
	return d.mean, true
}

// StdDev returns the population standard deviation.
// A single observation has a deviation of 0; no observations is not ok.
func (d *DelayStats) StdDev() (stddev float64, ok bool) {
	if d.count == 0 {
		return 0, false
	}
	if d.count < 2 {
		return 0, true
	}
	return math.Sqrt(d.m2 / float64(d.count)), true
}
