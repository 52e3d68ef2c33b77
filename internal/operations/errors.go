package operations

import (
	"errors"
	"fmt"
)

// ErrStopOperation ends an operation successfully without running the
// remaining steps.
var ErrStopOperation = errors.New("operation stopped")

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeExecution    ErrorType = "execution"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypePanic        ErrorType = "panic"
)

// OperationError reports the step an operation failed in.
type OperationError struct {
	Type  ErrorType
	Step  string
	Cause error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Type, e.Step, e.Cause)
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

// NewExecutionError wraps a step failure
func NewExecutionError(step string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeExecution, Step: step, Cause: cause}
}

// NewCancellationError reports a context cancelled before step ran
func NewCancellationError(step string, cause error) *OperationError {
	return &OperationError{Type: ErrorTypeCancellation, Step: step, Cause: cause}
}
