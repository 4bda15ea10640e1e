// Package floatutils provides small float64 helpers shared by the
// demos and tests.
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip bounds value to [min, max].
func Clip(value, min, max float64) float64 {
	return math.Max(math.Min(value, max), min)
}

// ClipInterval bounds value to the given interval.
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// MaxSlice returns the maximum value in values and every index at
// which it occurs. values must be non-empty.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}
	for i := 1; i < len(values); i++ {
		switch {
		case values[i] > max:
			max, indices = values[i], []int{i}
		case values[i] == max:
			indices = append(indices, i)
		}
	}
	return max, indices
}

// Ones returns a slice of n ones.
func Ones(n int) []float64 {
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1.0
	}
	return ones
}
