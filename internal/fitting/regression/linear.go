package regression

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LinearSums holds the aggregates of the straight-line normal equations
//
//	Σy  = n·a + b·Σx
//	Σxy = a·Σx + b·Σx²
type LinearSums struct {
	N   int
	Sx  float64
	Sy  float64
	Sxy float64
	Sxx float64
}

// finite reports whether every aggregate is representable.
func (s LinearSums) finite() bool {
	return allFinite(s.Sx, s.Sy, s.Sxy, s.Sxx)
}

// LinearFit is the least-squares line y = Intercept + Slope·x.
type LinearFit struct {
	Intercept float64
	Slope     float64
	Sums      LinearSums
}

// At evaluates the fitted line.
func (f LinearFit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// SolveLinear fits y = a + b·x by ordinary least squares. The closed form is
//
//	b = (n·Σxy − Σx·Σy) / (n·Σx² − (Σx)²),  a = (Σy − b·Σx) / n
//
// evaluated in its centred, cancellation-free equivalent. The raw sums are
// reported for the worked solution only, so a sum that overflows does not
// fail a fit whose centred solution is finite. It fails with ErrDegenerate
// when all x are identical (the denominator is zero) or the centred solution
// is not finite.
func SolveLinear(x, y []float64) (LinearFit, error) {
	n := len(x)
	if n < MinSamples || len(y) != n {
		return LinearFit{}, degenerateError("at least %d paired values are required", MinSamples)
	}

	sums := LinearSums{
		N:   n,
		Sx:  floats.Sum(x),
		Sy:  floats.Sum(y),
		Sxy: floats.Dot(x, y),
		Sxx: floats.Dot(x, x),
	}
	if !distinctAtLeast(x, 2) {
		return LinearFit{}, degenerateError("all x values are identical, so n·Σx² − (Σx)² = 0 and the normal equations are singular")
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	if !allFinite(intercept, slope) {
		return LinearFit{}, degenerateError("linear normal equations have no finite solution")
	}
	return LinearFit{Intercept: intercept, Slope: slope, Sums: sums}, nil
}
