// Package memory provides an in-process UserRepository. It keeps the same
// single-table layout as the DynamoDB backend: user items and name markers
// share one key space.
package memory

import (
	"context"
	"sort"
	"sync"

	"user-registry-api/internal/models"
	"user-registry-api/internal/repositories"
)

// UserRepository is an in-memory implementation of repositories.UserRepository
type UserRepository struct {
	mu sync.RWMutex
	// items maps a table key to its user; name markers map to nil
	items map[string]*models.User
}

// NewUserRepository creates an empty in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		items: make(map[string]*models.User),
	}
}

// Create implements repositories.UserRepository.Create
func (r *UserRepository) Create(ctx context.Context, user *models.User) (repositories.WriteOutcome, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := user.Validate(); err != nil {
		return 0, repositories.ValidationError("user", user.ID, err)
	}

	markerKey := models.NameMarkerKey(user.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.items[markerKey]; taken {
		return repositories.WriteConditionFailed, nil
	}

	stored := *user
	r.items[user.ID] = &stored
	r.items[markerKey] = nil

	return repositories.WriteCommitted, nil
}

// GetByID implements repositories.UserRepository.GetByID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user := r.items[id]
	if user == nil {
		return nil, repositories.NotFoundError("user", id)
	}

	found := *user
	return &found, nil
}

// FindByName implements repositories.UserRepository.FindByName
func (r *UserRepository) FindByName(ctx context.Context, name string) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*models.User, 0)
	for _, user := range r.items {
		if user == nil || user.Name != name {
			continue
		}
		found := *user
		users = append(users, &found)
	}

	// Map iteration order is random; keep results stable for callers.
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// Len returns the number of items, markers included
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Close implements io.Closer
func (r *UserRepository) Close() error {
	return nil
}

var _ repositories.UserRepository = (*UserRepository)(nil)
