// Package stats holds the small statistical reductions the window
// calculators need: linear-interpolation percentiles, population
// standard deviation, and coefficient of variation.
package stats

import (
	"math"
	"sort"
)

// Percentile returns the p-th percentile (0-100) of values using linear
// interpolation between order statistics (the "type 7" definition, the
// NumPy default). ok is false for an empty input.
func Percentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], true
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), true
}

// Mean returns the arithmetic mean. ok is false for an empty input.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// StdDevPop returns the population standard deviation. ok is false for
// an empty input.
func StdDevPop(values []float64) (float64, bool) {
	mean, ok := Mean(values)
	if !ok {
		return 0, false
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values))), true
}

// CoV returns the coefficient of variation as a percentage: population
// standard deviation divided by the mean. ok is false for an empty
// input or a zero mean.
func CoV(values []float64) (float64, bool) {
	mean, ok := Mean(values)
	if !ok || mean == 0 {
		return 0, false
	}
	sd, _ := StdDevPop(values)
	return sd / mean * 100, true
}
