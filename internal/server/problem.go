package server

import (
	"encoding/json"
	"net/http"
)

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeNotFound        = "https://curvefit.dev/problems/not-found"
	ProblemTypeBadRequest      = "https://curvefit.dev/problems/bad-request"
	ProblemTypeInternal        = "https://curvefit.dev/problems/internal-error"
	ProblemTypeUnauthorized    = "https://curvefit.dev/problems/unauthorized"
	ProblemTypeRateLimited     = "https://curvefit.dev/problems/rate-limited"
	ProblemTypePayloadTooLarge = "https://curvefit.dev/problems/payload-too-large"
)

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type" example:"https://curvefit.dev/problems/bad-request"`
	Title    string `json:"title" example:"Bad Request"`
	Status   int    `json:"status" example:"400"`
	Detail   string `json:"detail,omitempty" example:"invalid request: x and y must have the same length"`
	Instance string `json:"instance,omitempty" example:"/api/v1/fitting/fit"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func writeStatusProblem(w http.ResponseWriter, typ string, status int, detail, instance string) {
	WriteProblem(w, Problem{
		Type:     typ,
		Title:    http.StatusText(status),
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail, instance string) {
	writeStatusProblem(w, ProblemTypeNotFound, http.StatusNotFound, detail, instance)
}

// BadRequest writes a 400 problem response.
func BadRequest(w http.ResponseWriter, detail, instance string) {
	writeStatusProblem(w, ProblemTypeBadRequest, http.StatusBadRequest, detail, instance)
}

// PayloadTooLarge writes a 413 problem response.
func PayloadTooLarge(w http.ResponseWriter, detail, instance string) {
	writeStatusProblem(w, ProblemTypePayloadTooLarge, http.StatusRequestEntityTooLarge, detail, instance)
}

// InternalError writes a 500 problem response.
func InternalError(w http.ResponseWriter, detail, instance string) {
	writeStatusProblem(w, ProblemTypeInternal, http.StatusInternalServerError, detail, instance)
}

// RateLimited writes a 429 problem response.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	writeStatusProblem(w, ProblemTypeRateLimited, http.StatusTooManyRequests, detail, instance)
}
