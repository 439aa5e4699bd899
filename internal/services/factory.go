package services

import (
	"fmt"

	"user-registry-api/internal/repositories"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	UserService UserService
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(userRepo repositories.UserRepository, opts ...Option) (*ServiceContainer, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("user repository cannot be nil")
	}

	return &ServiceContainer{
		UserService: NewUserService(userRepo, opts...),
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.UserService == nil {
		return fmt.Errorf("user service is nil")
	}
	return nil
}
