package regression

import (
	"errors"

	"github.com/HerbHall/curvefit/pkg/curve"
)

// Result is one model's outcome within a batch. Err, when set, wraps
// ErrDomain or ErrDegenerate in a *ModelError and Solution is nil.
type Result struct {
	Model    Model
	Solution *Solution
	Goodness Goodness
	Err      error
}

// OK reports whether the model was fitted and scored.
func (r *Result) OK() bool {
	return r.Err == nil && r.Solution != nil
}

// Report is the outcome of a batch, results in request order.
type Report struct {
	Results []Result
	Best    Model
	HasBest bool
}

// Failures counts the results that carry an error.
func (r *Report) Failures() int {
	n := 0
	for i := range r.Results {
		if !r.Results[i].OK() {
			n++
		}
	}
	return n
}

// FitModel runs domain check, solver and evaluator for a single family.
func FitModel(s *SampleSet, m Model) Result {
	res := Result{Model: m}
	f, ok := families[m]
	if !ok {
		res.Err = &ModelError{Model: m, Err: shapeError("unknown model type %q", m)}
		return res
	}

	if err := CheckDomain(m, s); err != nil {
		res.Err = &ModelError{Model: m, Err: err}
		return res
	}

	sol, err := f.solve(s)
	if err != nil {
		res.Err = &ModelError{Model: m, Err: err}
		return res
	}

	g, err := Evaluate(s.x, s.y, sol.Predict)
	if err != nil {
		res.Err = &ModelError{Model: m, Err: err}
		return res
	}

	res.Solution = sol
	res.Goodness = g
	return res
}

// Fit fits every requested model against the samples, in request order, and
// selects the best successful one.
func Fit(s *SampleSet, models []Model) Report {
	rep := Report{Results: make([]Result, 0, len(models))}
	for _, m := range models {
		rep.Results = append(rep.Results, FitModel(s, m))
	}
	rep.Best, rep.HasBest = SelectBest(rep.Results)
	return rep
}

// Response composes the wire payload for the report.
func (r *Report) Response() *curve.FitResponse {
	resp := &curve.FitResponse{Results: make([]curve.FitResult, 0, len(r.Results))}
	for i := range r.Results {
		resp.Results = append(resp.Results, Compose(&r.Results[i]))
	}
	if r.HasBest {
		best := string(r.Best)
		resp.BestType = &best
	}
	return resp
}

// Prepare validates a transport request into typed samples and models.
// Every failure wraps ErrRequestShape.
func Prepare(req curve.FitRequest) (*SampleSet, []Model, error) {
	s, err := NewSampleSet(req.X, req.Y)
	if err != nil {
		return nil, nil, err
	}
	models, err := ExpandTypes(req.Types)
	if err != nil {
		return nil, nil, err
	}
	return s, models, nil
}

// Run is the engine entry point: validate the request, fit each requested
// family and compose the response. A non-nil error always wraps
// ErrRequestShape and means no response was produced.
func Run(req curve.FitRequest) (*curve.FitResponse, error) {
	s, models, err := Prepare(req)
	if err != nil {
		return nil, err
	}
	rep := Fit(s, models)
	return rep.Response(), nil
}

// IsRequestError reports whether err rejects the whole batch.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrRequestShape)
}
