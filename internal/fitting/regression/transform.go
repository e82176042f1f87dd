package regression

import (
	"fmt"
	"math"

	"github.com/HerbHall/curvefit/pkg/curve"
)

// The exponential, logarithmic and power families are log-linearised:
//
//	exponential  y = a·e^(b·x)  →  ln y = ln a + b·x       fit (x, ln y)
//	logarithmic  y = a + b·ln x →  y    = a + b·(ln x)      fit (ln x, y)
//	power        y = a·x^b      →  ln y = ln a + b·(ln x)   fit (ln x, ln y)
//
// Callers must have passed CheckDomain first; logs of non-positive values
// are never taken here.

func logs(vs []float64) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = math.Log(v)
	}
	return out
}

// expIntercept maps a log-space intercept back to the native a coefficient.
func expIntercept(lnA float64) (float64, error) {
	a := math.Exp(lnA)
	if math.IsInf(a, 0) {
		return 0, degenerateError("coefficient a = e^%s overflows", FormatNumber(lnA))
	}
	return a, nil
}

func solveExponential(s *SampleSet) (*Solution, error) {
	lny := logs(s.y)
	fit, err := SolveLinear(s.x, lny)
	if err != nil {
		return nil, err
	}
	lnA, b := fit.Intercept, fit.Slope
	a, err := expIntercept(lnA)
	if err != nil {
		return nil, err
	}
	sm := fit.Sums
	f := FormatNumber

	table := make([]curve.Record, len(s.x))
	for i, x := range s.x {
		table[i] = curve.Record{
			{Name: "x", Value: x},
			{Name: "y", Value: s.y[i]},
			{Name: "ln(y)", Value: lny[i]},
			{Name: "x·ln(y)", Value: x * lny[i]},
			{Name: "x²", Value: x * x},
		}
	}
	sums := curve.Record{
		{Name: "n", Value: float64(sm.N)},
		{Name: "Σx", Value: sm.Sx},
		{Name: "Σx²", Value: sm.Sxx},
		{Name: "Σln(y)", Value: sm.Sy},
		{Name: "Σx·ln(y)", Value: sm.Sxy},
	}

	steps := sumSteps(sums)
	steps = append(steps,
		"Take logs: ln(y) = ln(a) + b x",
		fmt.Sprintf("Computed: ln(a) = %s, b = %s, a = %s", f(lnA), f(b), f(a)),
	)

	return &Solution{
		Coefficients: Pair{A: a, B: b},
		Equation:     fmt.Sprintf("y = %s e^(%s x)", f(a), f(b)),
		Table:        table,
		Sums:         sums,
		Equations: []string{
			"Σln(y) = n·ln(a) + b·Σx",
			"Σx·ln(y) = ln(a)·Σx + b·Σx²",
		},
		Working: []string{
			"Take logs: ln(y) = ln(a) + b x, a straight line in x",
			fmt.Sprintf("Substitute values: Σln(y) = %s = %d·ln(a) + %s·b", f(sm.Sy), sm.N, f(sm.Sx)),
			fmt.Sprintf("and Σx·ln(y) = %s = %s·ln(a) + %s·b", f(sm.Sxy), f(sm.Sx), f(sm.Sxx)),
			fmt.Sprintf("Solve → ln(a) = %s, b = %s; so a = e^ln(a) = %s", f(lnA), f(b), f(a)),
		},
		Steps: steps,
		predict: func(x float64) float64 {
			return a * math.Exp(b*x)
		},
	}, nil
}

func solveLogarithmic(s *SampleSet) (*Solution, error) {
	lnx := logs(s.x)
	fit, err := SolveLinear(lnx, s.y)
	if err != nil {
		return nil, err
	}
	a, b := fit.Intercept, fit.Slope
	sm := fit.Sums
	f := FormatNumber

	table := make([]curve.Record, len(s.x))
	for i, x := range s.x {
		table[i] = curve.Record{
			{Name: "x", Value: x},
			{Name: "y", Value: s.y[i]},
			{Name: "ln(x)", Value: lnx[i]},
			{Name: "ln(x)·y", Value: lnx[i] * s.y[i]},
			{Name: "(ln x)²", Value: lnx[i] * lnx[i]},
		}
	}
	sums := curve.Record{
		{Name: "n", Value: float64(sm.N)},
		{Name: "Σln(x)", Value: sm.Sx},
		{Name: "Σ(ln x)²", Value: sm.Sxx},
		{Name: "Σy", Value: sm.Sy},
		{Name: "Σln(x)·y", Value: sm.Sxy},
	}

	steps := sumSteps(sums)
	steps = append(steps,
		"Let u = ln(x), then y = a + b·u",
		fmt.Sprintf("Computed: a = %s, b = %s", f(a), f(b)),
	)

	return &Solution{
		Coefficients: Pair{A: a, B: b},
		Equation:     "y = " + f(a) + signedTerm(b, " ln(x)"),
		Table:        table,
		Sums:         sums,
		Equations: []string{
			"Σy = n·a + b·Σln(x)",
			"Σln(x)·y = a·Σln(x) + b·Σ(ln x)²",
		},
		Working: []string{
			"Let u = ln(x), then y = a + b·u is a straight line in u",
			fmt.Sprintf("Substitute values: Σy = %s = %d·a + %s·b", f(sm.Sy), sm.N, f(sm.Sx)),
			fmt.Sprintf("and Σln(x)·y = %s = %s·a + %s·b", f(sm.Sxy), f(sm.Sx), f(sm.Sxx)),
			fmt.Sprintf("Solve → a = %s, b = %s", f(a), f(b)),
		},
		Steps: steps,
		predict: func(x float64) float64 {
			return a + b*math.Log(x)
		},
	}, nil
}

func solvePower(s *SampleSet) (*Solution, error) {
	lnx := logs(s.x)
	lny := logs(s.y)
	fit, err := SolveLinear(lnx, lny)
	if err != nil {
		return nil, err
	}
	lnA, b := fit.Intercept, fit.Slope
	a, err := expIntercept(lnA)
	if err != nil {
		return nil, err
	}
	sm := fit.Sums
	f := FormatNumber

	table := make([]curve.Record, len(s.x))
	for i, x := range s.x {
		table[i] = curve.Record{
			{Name: "x", Value: x},
			{Name: "y", Value: s.y[i]},
			{Name: "ln(x)", Value: lnx[i]},
			{Name: "ln(y)", Value: lny[i]},
			{Name: "ln(x)·ln(y)", Value: lnx[i] * lny[i]},
			{Name: "(ln x)²", Value: lnx[i] * lnx[i]},
		}
	}
	sums := curve.Record{
		{Name: "n", Value: float64(sm.N)},
		{Name: "Σln(x)", Value: sm.Sx},
		{Name: "Σ(ln x)²", Value: sm.Sxx},
		{Name: "Σln(y)", Value: sm.Sy},
		{Name: "Σln(x)·ln(y)", Value: sm.Sxy},
	}

	steps := sumSteps(sums)
	steps = append(steps,
		"Take logs: ln(y) = ln(a) + b·ln(x)",
		fmt.Sprintf("Computed: ln(a) = %s, b = %s, a = %s", f(lnA), f(b), f(a)),
	)

	return &Solution{
		Coefficients: Pair{A: a, B: b},
		Equation:     fmt.Sprintf("y = %s x^%s", f(a), exponent(b)),
		Table:        table,
		Sums:         sums,
		Equations: []string{
			"Σln(y) = n·ln(a) + b·Σln(x)",
			"Σln(x)·ln(y) = ln(a)·Σln(x) + b·Σ(ln x)²",
		},
		Working: []string{
			"Take logs: ln(y) = ln(a) + b·ln(x), a straight line in ln(x)",
			fmt.Sprintf("Substitute values: Σln(y) = %s = %d·ln(a) + %s·b", f(sm.Sy), sm.N, f(sm.Sx)),
			fmt.Sprintf("and Σln(x)·ln(y) = %s = %s·ln(a) + %s·b", f(sm.Sxy), f(sm.Sx), f(sm.Sxx)),
			fmt.Sprintf("Solve → ln(a) = %s, b = %s; so a = e^ln(a) = %s", f(lnA), f(b), f(a)),
		},
		Steps: steps,
		predict: func(x float64) float64 {
			return a * math.Pow(x, b)
		},
	}, nil
}
