package regression

import (
	"math"
	"slices"
)

// MinSamples is the smallest sample count any family can be fitted to.
const MinSamples = 2

// SampleSet is a validated, immutable set of paired observations.
type SampleSet struct {
	x []float64
	y []float64
}

// NewSampleSet validates the request shape and copies x and y.
// It fails with ErrRequestShape when either slice is missing, the lengths
// differ, fewer than MinSamples pairs are given, or a value is not finite.
func NewSampleSet(x, y []float64) (*SampleSet, error) {
	if x == nil || y == nil {
		return nil, shapeError("both x and y arrays are required")
	}
	if len(x) != len(y) {
		return nil, shapeError("x and y must have equal length (got %d and %d)", len(x), len(y))
	}
	if len(x) < MinSamples {
		return nil, shapeError("at least %d samples are required (got %d)", MinSamples, len(x))
	}
	if i, ok := firstNonFinite(x); ok {
		return nil, shapeError("x[%d] is not a finite number", i)
	}
	if i, ok := firstNonFinite(y); ok {
		return nil, shapeError("y[%d] is not a finite number", i)
	}
	return &SampleSet{x: slices.Clone(x), y: slices.Clone(y)}, nil
}

// Len returns the number of pairs.
func (s *SampleSet) Len() int { return len(s.x) }

// X returns a copy of the abscissae.
func (s *SampleSet) X() []float64 { return slices.Clone(s.x) }

// Y returns a copy of the ordinates.
func (s *SampleSet) Y() []float64 { return slices.Clone(s.y) }

func firstNonFinite(vs []float64) (int, bool) {
	for i, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i, true
		}
	}
	return 0, false
}

// firstNonPositive returns the index of the first value <= 0.
func firstNonPositive(vs []float64) (int, bool) {
	for i, v := range vs {
		if v <= 0 {
			return i, true
		}
	}
	return 0, false
}

// distinctAtLeast reports whether vs holds at least k distinct values.
func distinctAtLeast(vs []float64, k int) bool {
	seen := make([]float64, 0, k)
	for _, v := range vs {
		if !slices.Contains(seen, v) {
			seen = append(seen, v)
			if len(seen) >= k {
				return true
			}
		}
	}
	return len(seen) >= k
}

func allFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
