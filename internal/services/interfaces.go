package services

import (
	"context"

	"user-registry-api/internal/models"
)

// UserService defines the user registry operations
type UserService interface {
	// CreateUser registers a user under a name no other user holds
	CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error)

	// GetUser returns the user with the given ID
	GetUser(ctx context.Context, id string) (*models.User, error)

	// SearchUsersByName returns every user whose name equals name
	SearchUsersByName(ctx context.Context, name string) ([]*models.User, error)
}

// CreateUserRequest is the body accepted when creating a user
type CreateUserRequest struct {
	Name string `json:"name" validate:"required"`
	// Date is accepted for compatibility and ignored; the creation time is
	// always taken from the server clock.
	Date *string `json:"date,omitempty"`
}
