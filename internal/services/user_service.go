package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"user-registry-api/internal/logging"
	"user-registry-api/internal/models"
	"user-registry-api/internal/repositories"
)

// userService implements the UserService interface
type userService struct {
	userRepo  repositories.UserRepository
	validator *validator.Validate
	now       func() time.Time
}

// Option configures a user service
type Option func(*userService)

// WithClock overrides the clock used for creation timestamps
func WithClock(now func() time.Time) Option {
	return func(s *userService) {
		s.now = now
	}
}

// NewUserService creates a new user service instance
func NewUserService(userRepo repositories.UserRepository, opts ...Option) UserService {
	s := &userService{
		userRepo:  userRepo,
		validator: validator.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser creates a user and claims its name in one atomic write. A taken
// name is reported as ErrNameTaken and is not retried.
func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: create user request cannot be nil", ErrInvalidInput)
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be blank", ErrInvalidInput)
	}

	user := models.NewUser(req.Name, s.now())

	outcome, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if outcome == repositories.WriteConditionFailed {
		logging.FromContext(ctx).WithField("name", req.Name).Info("Name already taken")
		return nil, fmt.Errorf("%w: %q", ErrNameTaken, req.Name)
	}

	logging.FromContext(ctx).WithField("user_id", user.ID).Info("User created")
	return user, nil
}

// GetUser retrieves a user by ID
func (s *userService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, err
	}

	return user, nil
}

// SearchUsersByName scans for users with exactly this name. Zero matches is
// an empty slice, not an error.
func (s *userService) SearchUsersByName(ctx context.Context, name string) ([]*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	users, err := s.userRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}
