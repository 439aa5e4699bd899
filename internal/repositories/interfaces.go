package repositories

import (
	"context"
	"io"

	"user-registry-api/internal/models"
)

// WriteOutcome is the result of an atomic conditional write that did not fail
// for infrastructure reasons
type WriteOutcome int

const (
	// WriteCommitted means every write in the transaction landed
	WriteCommitted WriteOutcome = iota
	// WriteConditionFailed means a guarded write found its key taken and
	// nothing was written
	WriteConditionFailed
)

func (o WriteOutcome) String() string {
	switch o {
	case WriteCommitted:
		return "committed"
	case WriteConditionFailed:
		return "condition_failed"
	default:
		return "unknown"
	}
}

// UserRepository stores users together with the name markers that keep
// user names unique
type UserRepository interface {
	// Create writes the user and its name marker in one all-or-nothing
	// transaction. The marker write is conditional on its key being absent;
	// a taken name yields WriteConditionFailed with a nil error.
	Create(ctx context.Context, user *models.User) (WriteOutcome, error)

	// GetByID looks up a user by primary key. Returns ErrNotFound when no
	// user item has that key.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// FindByName reads every item in the table and returns the users whose
	// name equals name. This is a linear scan, not an index lookup.
	FindByName(ctx context.Context, name string) ([]*models.User, error)

	io.Closer
}
