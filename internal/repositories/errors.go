package repositories

import (
	"errors"
	"fmt"
)

// Common repository errors
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrValidation is returned when entity validation fails
	ErrValidation = errors.New("validation error")

	// ErrTransaction is returned when a transaction operation fails
	ErrTransaction = errors.New("transaction error")

	// ErrConnection is returned when the store cannot be reached
	ErrConnection = errors.New("store connection error")

	// ErrCorruptItem is returned when a stored item cannot be decoded
	ErrCorruptItem = errors.New("corrupt item")
)

// RepositoryError represents a repository-specific error with additional context
type RepositoryError struct {
	Op      string // Operation that failed
	Entity  string // Entity type
	ID      string // Entity ID (if applicable)
	Err     error  // Underlying error
	Message string // Human-readable message
}

// Error implements the error interface
func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.ID != "" {
		return fmt.Sprintf("%s %s operation failed for ID %s: %v", e.Entity, e.Op, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s operation failed: %v", e.Entity, e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(op, entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:     op,
		Entity: entity,
		ID:     id,
		Err:    err,
	}
}

// NotFoundError creates a "not found" repository error
func NotFoundError(entity, id string) *RepositoryError {
	return &RepositoryError{
		Op:      "get",
		Entity:  entity,
		ID:      id,
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s with ID %s not found", entity, id),
	}
}

// ValidationError creates a "validation" repository error
func ValidationError(entity, id string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      "validate",
		Entity:  entity,
		ID:      id,
		Err:     fmt.Errorf("%w: %v", ErrValidation, err),
		Message: fmt.Sprintf("validation failed for %s: %v", entity, err),
	}
}

// TransactionError creates a "transaction" repository error
func TransactionError(op string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Entity:  "transaction",
		Err:     fmt.Errorf("%w: %v", ErrTransaction, err),
		Message: fmt.Sprintf("transaction %s failed: %v", op, err),
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a "validation" error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
