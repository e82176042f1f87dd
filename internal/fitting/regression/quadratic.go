package regression

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// maxCondition bounds the condition number of the equilibrated normal matrix.
// Anything above it is treated as singular.
const maxCondition = 1e12

// QuadraticSums holds the power sums of the quadratic normal equations
//
//	Σy   = n·a   + b·Σx  + c·Σx²
//	Σxy  = a·Σx  + b·Σx² + c·Σx³
//	Σx²y = a·Σx² + b·Σx³ + c·Σx⁴
type QuadraticSums struct {
	N    int
	Sx   float64
	Sx2  float64
	Sx3  float64
	Sx4  float64
	Sy   float64
	Sxy  float64
	Sx2y float64
}

func (s QuadraticSums) finite() bool {
	return allFinite(s.Sx, s.Sx2, s.Sx3, s.Sx4, s.Sy, s.Sxy, s.Sx2y)
}

// QuadraticFit is the least-squares parabola y = A + B·x + C·x².
type QuadraticFit struct {
	A, B, C float64
	Sums    QuadraticSums
}

// At evaluates the fitted parabola.
func (f QuadraticFit) At(x float64) float64 {
	return f.A + f.B*x + f.C*x*x
}

func powerSums(x, y []float64) QuadraticSums {
	s := QuadraticSums{N: len(x)}
	for i, xi := range x {
		x2 := xi * xi
		s.Sx += xi
		s.Sx2 += x2
		s.Sx3 += x2 * xi
		s.Sx4 += x2 * x2
		s.Sy += y[i]
		s.Sxy += xi * y[i]
		s.Sx2y += x2 * y[i]
	}
	return s
}

// SolveQuadratic fits y = a + b·x + c·x² by least squares. The reported sums
// are the raw power sums; the 3×3 system itself is solved on centred x with
// diagonal equilibration and mapped back, which keeps data far from the
// origin solvable. Fails with ErrDegenerate on fewer than three distinct x
// values or an ill-conditioned system.
func SolveQuadratic(x, y []float64) (QuadraticFit, error) {
	n := len(x)
	if n < MinSamples || len(y) != n {
		return QuadraticFit{}, degenerateError("at least %d paired values are required", MinSamples)
	}

	sums := powerSums(x, y)
	if !sums.finite() {
		return QuadraticFit{}, degenerateError("aggregate sums overflow")
	}
	if !distinctAtLeast(x, 3) {
		return QuadraticFit{}, degenerateError("fewer than three distinct x values, so the quadratic normal equations are singular")
	}

	shift := sums.Sx / float64(n)
	u := make([]float64, n)
	copy(u, x)
	floats.AddConst(-shift, u)
	cs := powerSums(u, y)

	a := mat.NewDense(3, 3, []float64{
		float64(n), cs.Sx, cs.Sx2,
		cs.Sx, cs.Sx2, cs.Sx3,
		cs.Sx2, cs.Sx3, cs.Sx4,
	})
	rhs := mat.NewVecDense(3, []float64{cs.Sy, cs.Sxy, cs.Sx2y})

	var scale [3]float64
	for i := range scale {
		scale[i] = 1 / math.Sqrt(a.At(i, i))
	}
	a.Apply(func(i, j int, v float64) float64 { return v * scale[i] * scale[j] }, a)
	for i := range scale {
		rhs.SetVec(i, rhs.AtVec(i)*scale[i])
	}

	var lu mat.LU
	lu.Factorize(a)
	if c := lu.Cond(); math.IsInf(c, 1) || math.IsNaN(c) || c > maxCondition {
		return QuadraticFit{}, degenerateError("normal-equation matrix is singular (condition number %.3g)", c)
	}
	var sol mat.VecDense
	if err := lu.SolveVecTo(&sol, false, rhs); err != nil {
		return QuadraticFit{}, degenerateError("solve quadratic normal equations: %v", err)
	}

	// Undo equilibration, then expand a0 + b0(x−m) + c0(x−m)² in powers of x.
	a0 := sol.AtVec(0) * scale[0]
	b0 := sol.AtVec(1) * scale[1]
	c0 := sol.AtVec(2) * scale[2]
	fit := QuadraticFit{
		A:    a0 - b0*shift + c0*shift*shift,
		B:    b0 - 2*c0*shift,
		C:    c0,
		Sums: sums,
	}
	if !allFinite(fit.A, fit.B, fit.C) {
		return QuadraticFit{}, degenerateError("quadratic normal equations have no finite solution")
	}
	return fit, nil
}
