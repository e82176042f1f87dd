package regression

import (
	"errors"
	"fmt"
)

// Failure classes. Request-shape errors abort the whole batch; domain and
// degenerate errors are scoped to a single model through ModelError.
var (
	ErrRequestShape = errors.New("invalid request")
	ErrDomain       = errors.New("domain constraint violated")
	ErrDegenerate   = errors.New("degenerate input")
)

// ModelError scopes a domain or degeneracy failure to one model family.
type ModelError struct {
	Model Model
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s fit: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

func shapeError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRequestShape, fmt.Sprintf(format, args...))
}

func domainError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}

func degenerateError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDegenerate, fmt.Sprintf(format, args...))
}
