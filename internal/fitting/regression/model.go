// Package regression implements the least-squares curve-fitting engine:
// request validation, the linear and quadratic solvers, log-linearised
// exponential/logarithmic/power fits, R² scoring on the original y-scale,
// best-model selection and composition of the explanatory result payload.
//
// Everything in this package is a pure function of its inputs and safe for
// concurrent use.
package regression

import (
	"slices"
	"strings"

	"github.com/HerbHall/curvefit/pkg/curve"
)

// Model identifies a parametric model family.
type Model string

const (
	Linear      Model = curve.TypeLinear
	Quadratic   Model = curve.TypeQuadratic
	Exponential Model = curve.TypeExponential
	Logarithmic Model = curve.TypeLogarithmic
	Power       Model = curve.TypePower
)

// Models lists every family in canonical order. The order expands "all" and
// breaks R² ties (earlier wins).
var Models = []Model{Linear, Quadratic, Exponential, Logarithmic, Power}

// rank returns the canonical position of m, or len(Models) if unknown.
func (m Model) rank() int {
	if i := slices.Index(Models, m); i >= 0 {
		return i
	}
	return len(Models)
}

// Valid reports whether m is one of the five families.
func (m Model) Valid() bool {
	return m.rank() < len(Models)
}

// ParseModel converts a wire name into a Model.
func ParseModel(name string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(name)))
	if !m.Valid() {
		return "", shapeError("unknown model type %q", name)
	}
	return m, nil
}

// ExpandTypes turns the requested type names into an ordered model list.
// An empty list or any "all" entry selects every family in canonical order;
// duplicates keep their first position.
func ExpandTypes(names []string) ([]Model, error) {
	if len(names) == 0 {
		return slices.Clone(Models), nil
	}

	out := make([]Model, 0, len(names))
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), curve.TypeAll) {
			return slices.Clone(Models), nil
		}
		m, err := ParseModel(name)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out, nil
}
