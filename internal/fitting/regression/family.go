package regression

import (
	"fmt"

	"github.com/HerbHall/curvefit/pkg/curve"
)

// Coefficients are a family's native parameters. Pair and Triple are the
// only implementations.
type Coefficients interface {
	Fields() curve.Record
}

// Pair holds the {a, b} parameters of the two-parameter families.
type Pair struct {
	A, B float64
}

// Fields implements Coefficients.
func (p Pair) Fields() curve.Record {
	return curve.Record{{Name: "a", Value: p.A}, {Name: "b", Value: p.B}}
}

// Triple holds the {a, b, c} parameters of the quadratic family.
type Triple struct {
	A, B, C float64
}

// Fields implements Coefficients.
func (t Triple) Fields() curve.Record {
	return curve.Record{{Name: "a", Value: t.A}, {Name: "b", Value: t.B}, {Name: "c", Value: t.C}}
}

// Solution is a solver's output before scoring.
type Solution struct {
	Coefficients Coefficients
	Equation     string
	Table        []curve.Record
	Sums         curve.Record
	Equations    []string
	Working      []string
	Steps        []string

	predict func(x float64) float64
}

// Predict evaluates the fitted model's native formula at x.
func (s *Solution) Predict(x float64) float64 {
	return s.predict(x)
}

// family binds a Model to its presentation and its solver.
type family struct {
	model    Model
	formula  string
	question string
	domain   string
	columns  []string

	// checkDomain is nil for families without a domain restriction.
	checkDomain func(s *SampleSet) error
	// domainSteps explain a domain failure to the reader.
	domainSteps []string
	solve       func(s *SampleSet) (*Solution, error)
}

var families = map[Model]family{
	Linear: {
		model:    Linear,
		formula:  "y = a + b x",
		question: "Fit a straight line to the following data",
		domain:   "any finite x and y",
		columns:  []string{"x", "y", "xy", "x²"},
		solve:    solveLinearModel,
	},
	Quadratic: {
		model:    Quadratic,
		formula:  "y = a + b x + c x^2",
		question: "Fit a quadratic curve to the following data",
		domain:   "any finite x and y",
		columns:  []string{"x", "y", "x²", "x³", "x⁴", "xy", "x²y"},
		solve:    solveQuadraticModel,
	},
	Exponential: {
		model:       Exponential,
		formula:     "y = a e^(b x)",
		question:    "Fit an exponential curve to the following data",
		domain:      "y > 0",
		columns:     []string{"x", "y", "ln(y)", "x·ln(y)", "x²"},
		checkDomain: requirePositiveY(Exponential),
		domainSteps: []string{"Check: all y must be positive for ln(y)."},
		solve:       solveExponential,
	},
	Logarithmic: {
		model:       Logarithmic,
		formula:     "y = a + b ln(x)",
		question:    "Fit a logarithmic curve to the following data",
		domain:      "x > 0",
		columns:     []string{"x", "y", "ln(x)", "ln(x)·y", "(ln x)²"},
		checkDomain: requirePositiveX(Logarithmic),
		domainSteps: []string{"Check: all x must be positive for ln(x)."},
		solve:       solveLogarithmic,
	},
	Power: {
		model:    Power,
		formula:  "y = a x^b",
		question: "Fit a power curve to the following data",
		domain:   "x > 0 and y > 0",
		columns:  []string{"x", "y", "ln(x)", "ln(y)", "ln(x)·ln(y)", "(ln x)²"},
		checkDomain: func(s *SampleSet) error {
			if err := requirePositiveX(Power)(s); err != nil {
				return err
			}
			return requirePositiveY(Power)(s)
		},
		domainSteps: []string{"Check: all x and y must be positive for ln(x) and ln(y)."},
		solve:       solvePower,
	},
}

// CheckDomain reports whether the samples lie inside the model's domain.
// A violation wraps ErrDomain.
func CheckDomain(m Model, s *SampleSet) error {
	f, ok := families[m]
	if !ok {
		return shapeError("unknown model type %q", m)
	}
	if f.checkDomain == nil {
		return nil
	}
	return f.checkDomain(s)
}

// Catalogue describes every family in canonical order.
func Catalogue() []curve.ModelInfo {
	out := make([]curve.ModelInfo, 0, len(Models))
	for _, m := range Models {
		f := families[m]
		out = append(out, curve.ModelInfo{
			Type:     string(m),
			Formula:  f.formula,
			Domain:   f.domain,
			Columns:  append([]string(nil), f.columns...),
			Question: f.question,
		})
	}
	return out
}

func requirePositiveY(m Model) func(*SampleSet) error {
	return func(s *SampleSet) error {
		if i, bad := firstNonPositive(s.y); bad {
			return domainError("%s fit requires all y > 0 for ln(y), but y[%d] = %s", m, i, FormatNumber(s.y[i]))
		}
		return nil
	}
}

func requirePositiveX(m Model) func(*SampleSet) error {
	return func(s *SampleSet) error {
		if i, bad := firstNonPositive(s.x); bad {
			return domainError("%s fit requires all x > 0 for ln(x), but x[%d] = %s", m, i, FormatNumber(s.x[i]))
		}
		return nil
	}
}

// sumSteps lists each aggregate as "name = value".
func sumSteps(sums curve.Record) []string {
	steps := make([]string, 0, len(sums))
	for _, f := range sums {
		steps = append(steps, fmt.Sprintf("%s = %s", f.Name, FormatNumber(f.Value)))
	}
	return steps
}

func solveLinearModel(s *SampleSet) (*Solution, error) {
	fit, err := SolveLinear(s.x, s.y)
	if err != nil {
		return nil, err
	}
	a, b := fit.Intercept, fit.Slope
	sm := fit.Sums

	table := make([]curve.Record, len(s.x))
	for i, x := range s.x {
		y := s.y[i]
		table[i] = curve.Record{{Name: "x", Value: x}, {Name: "y", Value: y}, {Name: "xy", Value: x * y}, {Name: "x²", Value: x * x}}
	}
	sums := curve.Record{
		{Name: "n", Value: float64(sm.N)},
		{Name: "Σx", Value: sm.Sx},
		{Name: "Σy", Value: sm.Sy},
		{Name: "Σxy", Value: sm.Sxy},
		{Name: "Σx²", Value: sm.Sxx},
	}

	steps := sumSteps(sums)
	if !sm.finite() {
		steps = append(steps, "Some sums exceed the floating-point range, so a and b were computed from the centred data.")
	}
	steps = append(steps,
		"Formulas: b = (nΣxy − (Σx)(Σy)) / (nΣx² − (Σx)²), a = (Σy − bΣx)/n",
		fmt.Sprintf("Computed: b = %s, a = %s", FormatNumber(b), FormatNumber(a)),
	)

	return &Solution{
		Coefficients: Pair{A: a, B: b},
		Equation:     "y = " + FormatNumber(a) + signedTerm(b, " x"),
		Table:        table,
		Sums:         sums,
		Equations: []string{
			"Σy = n·a + b·Σx",
			"Σxy = a·Σx + b·Σx²",
		},
		Working: []string{
			"Let the best fitted straight line be y = a + b x",
			fmt.Sprintf("Substitute values: Σy = %s = %d·a + %s·b", FormatNumber(sm.Sy), sm.N, FormatNumber(sm.Sx)),
			fmt.Sprintf("and Σxy = %s = %s·a + %s·b", FormatNumber(sm.Sxy), FormatNumber(sm.Sx), FormatNumber(sm.Sxx)),
			fmt.Sprintf("Solve → b = %s, then a = (Σy − bΣx)/n = (%s − %s·%s)/%d = %s",
				FormatNumber(b), FormatNumber(sm.Sy), FormatNumber(b), FormatNumber(sm.Sx), sm.N, FormatNumber(a)),
		},
		Steps:   steps,
		predict: fit.At,
	}, nil
}

func solveQuadraticModel(s *SampleSet) (*Solution, error) {
	fit, err := SolveQuadratic(s.x, s.y)
	if err != nil {
		return nil, err
	}
	sm := fit.Sums

	table := make([]curve.Record, len(s.x))
	for i, x := range s.x {
		y := s.y[i]
		x2 := x * x
		table[i] = curve.Record{
			{Name: "x", Value: x},
			{Name: "y", Value: y},
			{Name: "x²", Value: x2},
			{Name: "x³", Value: x2 * x},
			{Name: "x⁴", Value: x2 * x2},
			{Name: "xy", Value: x * y},
			{Name: "x²y", Value: x2 * y},
		}
	}
	sums := curve.Record{
		{Name: "n", Value: float64(sm.N)},
		{Name: "Σx", Value: sm.Sx},
		{Name: "Σx²", Value: sm.Sx2},
		{Name: "Σx³", Value: sm.Sx3},
		{Name: "Σx⁴", Value: sm.Sx4},
		{Name: "Σy", Value: sm.Sy},
		{Name: "Σxy", Value: sm.Sxy},
		{Name: "Σx²y", Value: sm.Sx2y},
	}
	f := FormatNumber

	steps := sumSteps(sums)
	steps = append(steps,
		"Solve the 3×3 system for a, b, c.",
		fmt.Sprintf("Computed: a = %s, b = %s, c = %s", f(fit.A), f(fit.B), f(fit.C)),
	)

	return &Solution{
		Coefficients: Triple{A: fit.A, B: fit.B, C: fit.C},
		Equation:     "y = " + f(fit.A) + signedTerm(fit.B, " x") + signedTerm(fit.C, " x^2"),
		Table:        table,
		Sums:         sums,
		Equations: []string{
			"Σy = n·a + b·Σx + c·Σx²",
			"Σxy = a·Σx + b·Σx² + c·Σx³",
			"Σx²y = a·Σx² + b·Σx³ + c·Σx⁴",
		},
		Working: []string{
			"Let the best fitted parabola be y = a + b x + c x^2",
			fmt.Sprintf("Substitute values: %s = %d·a + %s·b + %s·c", f(sm.Sy), sm.N, f(sm.Sx), f(sm.Sx2)),
			fmt.Sprintf("%s = %s·a + %s·b + %s·c", f(sm.Sxy), f(sm.Sx), f(sm.Sx2), f(sm.Sx3)),
			fmt.Sprintf("%s = %s·a + %s·b + %s·c", f(sm.Sx2y), f(sm.Sx2), f(sm.Sx3), f(sm.Sx4)),
			fmt.Sprintf("Solve the 3×3 system → a = %s, b = %s, c = %s", f(fit.A), f(fit.B), f(fit.C)),
		},
		Steps:   steps,
		predict: fit.At,
	}, nil
}
