package executions

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates no execution exists for the requested id.
var ErrNotFound = errors.New("execution not found")

// MapHTTPStatus maps execution errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
