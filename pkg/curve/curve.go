// Package curve provides the public wire types of the curvefit API.
// Clients (the browser front end, the CLI, WebSocket sessions) exchange these
// shapes with the fitting engine.
package curve

// Model family names accepted in FitRequest.Types.
const (
	TypeLinear      = "linear"
	TypeQuadratic   = "quadratic"
	TypeExponential = "exponential"
	TypeLogarithmic = "logarithmic"
	TypePower       = "power"

	// TypeAll expands to every model family in canonical order.
	TypeAll = "all"
)

// FitRequest is the request body for POST /fitting/fit.
type FitRequest struct {
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Types []string  `json:"types,omitempty"`
}

// FitResponse is the response for POST /fitting/fit.
type FitResponse struct {
	Results  []FitResult `json:"results"`
	BestType *string     `json:"bestType"` // null when no fit succeeded
}

// FitResult is the explanation record of a single model family's fit.
// When Error is set the numeric fields (coefficients, r2, table, sums,
// equations, working) are absent.
type FitResult struct {
	Type         string             `json:"type"`
	Formula      string             `json:"formula"`
	Question     string             `json:"question,omitempty"`
	Coefficients map[string]float64 `json:"coefficients,omitempty"`
	Equation     string             `json:"equation,omitempty"`
	R2           *float64           `json:"r2,omitempty"`
	Columns      []string           `json:"columns,omitempty"`
	Table        []Record           `json:"table,omitempty"`
	Sums         Record             `json:"sums,omitempty"`
	Equations    []string           `json:"equations,omitempty"`
	Working      []string           `json:"working,omitempty"`
	Steps        []string           `json:"steps,omitempty"`
	Warnings     string             `json:"warnings,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// OK reports whether the fit succeeded.
func (r *FitResult) OK() bool {
	return r.Error == "" && r.R2 != nil
}

// ModelInfo describes one model family for GET /fitting/models.
type ModelInfo struct {
	Type     string   `json:"type" example:"power"`
	Formula  string   `json:"formula" example:"y = a x^b"`
	Domain   string   `json:"domain" example:"x > 0 and y > 0"`
	Columns  []string `json:"columns"`
	Question string   `json:"question"`
}
