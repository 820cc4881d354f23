// Package stats provides the descriptive statistics used by the overview
// summarizer. All functions treat an empty slice as zero rather than
// panicking, matching the sentinel-not-error policy of the pipeline.
package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean of a slice of float64 values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance calculates the sample variance.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(values)-1)
}

// StdDev calculates the sample standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// Median calculates the median value.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Copy to avoid modifying the caller's slice
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Min returns the minimum value.
func Min(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum value.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Sum returns the sum of all values.
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Summary bundles the five descriptive statistics reported per quantity.
type Summary struct {
	Median float64
	Mean   float64
	SD     float64
	Min    float64
	Max    float64
}

// Describe computes the five-number summary of values.
func Describe(values []float64) Summary {
	return Summary{
		Median: Median(values),
		Mean:   Mean(values),
		SD:     StdDev(values),
		Min:    Min(values),
		Max:    Max(values),
	}
}
