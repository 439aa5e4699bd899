package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"user-registry-api/internal/config"
	"user-registry-api/internal/database"
	"user-registry-api/internal/handlers"
	"user-registry-api/internal/repositories"
	dynamorepo "user-registry-api/internal/repositories/dynamodb"
	"user-registry-api/internal/repositories/memory"
	sqliterepo "user-registry-api/internal/repositories/sqlite"
	"user-registry-api/internal/services"
)

// Container holds all application dependencies. It is built once per
// process and shared by every invocation.
type Container struct {
	Config         *config.Config
	UserRepository repositories.UserRepository
	UserService    services.UserService
	UserHandler    *handlers.UserHandler

	services *services.ServiceContainer
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	repo, err := newUserRepository(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to create user repository: %w", err)
	}

	serviceContainer, err := services.NewServiceContainer(repo)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"backend": cfg.Store.Backend,
		"profile": cfg.Store.Profile,
		"table":   cfg.Store.TableName,
	}).Info("Container initialized")

	return &Container{
		Config:         cfg,
		UserRepository: repo,
		UserService:    serviceContainer.UserService,
		UserHandler:    handlers.NewUserHandler(serviceContainer.UserService),
		services:       serviceContainer,
	}, nil
}

func newUserRepository(ctx context.Context, store config.StoreConfig) (repositories.UserRepository, error) {
	switch store.Backend {
	case config.BackendDynamoDB:
		client, err := database.NewDynamoDBClient(ctx, store)
		if err != nil {
			return nil, err
		}
		return dynamorepo.NewUserRepository(client, store.TableName), nil

	case config.BackendSQLite:
		db, err := database.OpenSQLite(store.SQLitePath, logrus.StandardLogger())
		if err != nil {
			return nil, err
		}
		return sqliterepo.NewUserRepository(db, logrus.StandardLogger()), nil

	case config.BackendMemory:
		return memory.NewUserRepository(), nil

	default:
		return nil, fmt.Errorf("unsupported store backend %q", store.Backend)
	}
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.UserRepository != nil {
		if err := c.UserRepository.Close(); err != nil {
			return fmt.Errorf("failed to close user repository: %w", err)
		}
	}
	return nil
}
