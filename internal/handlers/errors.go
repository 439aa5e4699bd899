package handlers

import (
	"errors"
	"net/http"

	"user-registry-api/internal/services"
)

// Error messages returned to clients
const (
	msgNameTaken       = "Name already exists. Please choose another name."
	msgMissingName     = "Missing required field: 'name'"
	msgMissingUserID   = "Missing userId"
	msgUserNotFound    = "User not found"
	msgMissingNameArg  = "Missing required query parameter: 'name'"
	msgCreateFailedFmt = "Failed to create user: %v"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// isValidationError checks if an error is a client input error
func isValidationError(err error) bool {
	return errors.Is(err, services.ErrInvalidInput)
}

// isNotFoundError checks if an error is a not found error
func isNotFoundError(err error) bool {
	return errors.Is(err, services.ErrUserNotFound)
}

// isConflictError checks if an error is a name conflict
func isConflictError(err error) bool {
	return errors.Is(err, services.ErrNameTaken)
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case isValidationError(err):
		return http.StatusBadRequest
	case isNotFoundError(err):
		return http.StatusNotFound
	case isConflictError(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
