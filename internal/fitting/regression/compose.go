package regression

import (
	"errors"

	"github.com/HerbHall/curvefit/pkg/curve"
)

const degenerateStep = "Check: the samples do not determine a unique least-squares solution for this model (for example, too few distinct x values)."

// Compose builds the explanation record for one result. Failed results keep
// only their descriptive fields plus the error message; numeric fields are
// populated only on success.
func Compose(r *Result) curve.FitResult {
	f := families[r.Model]
	out := curve.FitResult{
		Type:     string(r.Model),
		Formula:  f.formula,
		Question: f.question,
	}

	if !r.OK() {
		out.Error = failureMessage(r.Err)
		switch {
		case errors.Is(r.Err, ErrDomain):
			out.Steps = append([]string(nil), f.domainSteps...)
		case errors.Is(r.Err, ErrDegenerate):
			out.Steps = []string{degenerateStep}
		}
		return out
	}

	sol := r.Solution
	coeffs := sol.Coefficients.Fields()
	out.Coefficients = make(map[string]float64, len(coeffs))
	for _, c := range coeffs {
		out.Coefficients[c.Name] = c.Value
	}
	r2 := r.Goodness.R2
	out.R2 = &r2
	out.Equation = sol.Equation
	out.Columns = append([]string(nil), f.columns...)
	out.Table = sol.Table
	out.Sums = sol.Sums
	out.Equations = sol.Equations
	out.Working = sol.Working
	out.Steps = sol.Steps
	out.Warnings = r.Goodness.Warning
	return out
}

// failureMessage strips the model prefix added by ModelError; the result
// record already names its model.
func failureMessage(err error) string {
	if err == nil {
		return "fit did not produce a solution"
	}
	var me *ModelError
	if errors.As(err, &me) && me.Err != nil {
		return me.Err.Error()
	}
	return err.Error()
}
