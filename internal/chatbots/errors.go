package chatbots

import (
	"errors"
	"net/http"
)

// Domain errors for chatbot operations.
var (
	ErrNotFound       = errors.New("chatbot not found")
	ErrDuplicate      = errors.New("chatbot already exists")
	ErrDetailNotFound = errors.New("agent detail not found")
	ErrNotPending     = errors.New("chatbot is not in PENDING status")
	ErrInvalidInput   = errors.New("invalid chatbot input")
)

// MapHTTPStatus maps chatbot domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDetailNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
