package workflow

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTimedOut indicates the execution exceeded its overall deadline.
var ErrTimedOut = errors.New("workflow execution timed out")

// MissingInputError indicates a required field was absent from the execution
// context when a step handler validated its input.
type MissingInputError struct {
	Key string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing required input: %s", e.Key)
}

// NotFoundError indicates a tenant or resource lookup miss.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NotActiveError indicates a dependency resource was not in its required
// state when a step strict-checked it.
type NotActiveError struct {
	Resource string
	Status   string
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("%s is not active: status %s", e.Resource, e.Status)
}

// BackingServiceError wraps a failure from an external service call,
// carrying the operation and the service's error code when available.
type BackingServiceError struct {
	Op   string
	Code string
	Err  error
}

func (e *BackingServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackingServiceError) Unwrap() error {
	return e.Err
}

// StepError attaches the stage name to a step handler failure.
type StepError struct {
	Stage string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps workflow errors to HTTP status codes when surfaced
// synchronously. Missing input and lookup misses are client faults; backing
// service failures and everything else are server faults.
func MapHTTPStatus(err error) int {
	var missing *MissingInputError
	if errors.As(err, &missing) {
		return http.StatusBadRequest
	}

	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, ErrTimedOut) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}
