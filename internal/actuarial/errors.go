package actuarial

import (
	"errors"
	"fmt"
)

// ValidationError reports a quote request precondition violation. It is never
// retried; the caller must fix the request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidf(field, format string, a ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, a...)}
}

// ModelInstabilityError reports a frequency parameter set whose branching
// ratio makes the stationary rate undefined. It is a configuration defect:
// the regime must not be priced until the curve is recalibrated.
type ModelInstabilityError struct {
	BranchingRatio float64
}

func (e *ModelInstabilityError) Error() string {
	return fmt.Sprintf("frequency model unstable: branching ratio %.4f >= 1", e.BranchingRatio)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsInstability reports whether err is a model instability failure.
func IsInstability(err error) bool {
	var me *ModelInstabilityError
	return errors.As(err, &me)
}
