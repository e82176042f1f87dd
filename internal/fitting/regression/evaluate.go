package regression

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// residualTolerance is the relative residual norm below which a model counts
// as reproducing observations that have no variance.
const residualTolerance = 1e-6

// Goodness summarises how well a model reproduces the observed y values.
// ResNorm and TotNorm are the Euclidean norms of the residuals and of the
// centred observations, so SS_res = ResNorm² and SS_tot = TotNorm².
type Goodness struct {
	R2      float64
	ResNorm float64
	TotNorm float64
	Warning string
}

// Evaluate scores predictions on the original y-scale:
// R² = 1 − SS_res/SS_tot with SS_res = Σ(yᵢ − ŷᵢ)², SS_tot = Σ(yᵢ − ȳ)².
// predict must be the model's native formula, never its linearised proxy.
// The ratio is formed from the unsquared norms, which stay in range for any
// finite samples.
//
// When every y is identical SS_tot is zero: R² is 1 if the residuals are
// also (numerically) zero, otherwise 0 with a warning.
func Evaluate(x, y []float64, predict func(float64) float64) (Goodness, error) {
	if len(x) != len(y) || len(y) == 0 {
		return Goodness{}, degenerateError("cannot score %d predictions against %d observations", len(x), len(y))
	}

	yhat := make([]float64, len(x))
	for i, xi := range x {
		yhat[i] = predict(xi)
		if math.IsNaN(yhat[i]) || math.IsInf(yhat[i], 0) {
			return Goodness{}, degenerateError("model prediction at x = %s is not finite", FormatNumber(xi))
		}
	}

	g := Goodness{ResNorm: floats.Distance(y, yhat, 2)}
	if math.IsInf(g.ResNorm, 0) {
		return Goodness{}, degenerateError("residual norm overflows")
	}

	if !distinctAtLeast(y, 2) {
		if g.ResNorm <= residualTolerance*math.Max(floats.Norm(y, 2), 1) {
			g.R2 = 1
		} else {
			g.R2 = 0
			g.Warning = "all y values are identical (SS_tot = 0); R² reported as 0 because the model does not reproduce the constant"
		}
		return g, nil
	}

	means := make([]float64, len(y))
	floats.AddConst(mean(y), means)
	g.TotNorm = floats.Distance(y, means, 2)
	if g.TotNorm == 0 || math.IsInf(g.TotNorm, 0) {
		return Goodness{}, degenerateError("spread of the observations is out of range")
	}
	r := g.ResNorm / g.TotNorm
	g.R2 = 1 - r*r
	if !allFinite(g.R2) {
		return Goodness{}, degenerateError("R² is not finite")
	}
	return g, nil
}

// mean is stat.Mean, falling back to pre-scaled terms when the plain sum
// overflows.
func mean(vs []float64) float64 {
	m := stat.Mean(vs, nil)
	if !math.IsInf(m, 0) {
		return m
	}
	n := float64(len(vs))
	m = 0
	for _, v := range vs {
		m += v / n
	}
	return m
}
