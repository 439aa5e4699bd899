// Package sqlite implements repositories.UserRepository on a local SQLite
// file. The user_items table mirrors the DynamoDB layout so that the name
// marker protocol is the same on both backends.
package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"user-registry-api/internal/models"
	"user-registry-api/internal/repositories"
)

// UserRepository is the SQLite implementation of repositories.UserRepository
type UserRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewUserRepository creates a repository over an already migrated database
func NewUserRepository(db *sql.DB, logger *logrus.Logger) *UserRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create implements repositories.UserRepository.Create
func (r *UserRepository) Create(ctx context.Context, user *models.User) (repositories.WriteOutcome, error) {
	if err := user.Validate(); err != nil {
		return 0, repositories.ValidationError("user", user.ID, err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, repositories.TransactionError("begin", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// The user row is an unconditional put.
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_items (user_id, name, date) VALUES (?, ?, ?)`,
		user.ID, user.Name, user.CreatedAt)
	if err != nil {
		return 0, repositories.NewRepositoryError("create", "user", user.ID, err)
	}

	// The marker insert fails on the primary key if the name is taken.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO user_items (user_id) VALUES (?)`,
		models.NameMarkerKey(user.Name))
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return repositories.WriteConditionFailed, nil
		}
		return 0, repositories.NewRepositoryError("create", "name marker", user.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, repositories.TransactionError("commit", err)
	}

	return repositories.WriteCommitted, nil
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// GetByID implements repositories.UserRepository.GetByID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var (
		userID string
		name   sql.NullString
		date   sql.NullString
	)

	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, name, date FROM user_items WHERE user_id = ?`, id,
	).Scan(&userID, &name, &date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError("user", id)
		}
		return nil, repositories.NewRepositoryError("get", "user", id, err)
	}

	// Marker rows have no name.
	if !name.Valid {
		return nil, repositories.NotFoundError("user", id)
	}

	return &models.User{ID: userID, Name: name.String, CreatedAt: date.String}, nil
}

// FindByName implements repositories.UserRepository.FindByName. The name
// column has no index, so this reads the whole table.
func (r *UserRepository) FindByName(ctx context.Context, name string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, name, date FROM user_items WHERE name = ? ORDER BY user_id`, name)
	if err != nil {
		return nil, repositories.NewRepositoryError("scan", "user", "", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var (
			user models.User
			date sql.NullString
		)
		if err := rows.Scan(&user.ID, &user.Name, &date); err != nil {
			return nil, repositories.NewRepositoryError("scan", "user", "", err)
		}
		user.CreatedAt = date.String
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, repositories.NewRepositoryError("scan", "user", "", err)
	}

	r.logger.WithField("matches", len(users)).Debug("Scanned user_items by name")
	return users, nil
}

// Close closes the underlying database
func (r *UserRepository) Close() error {
	return r.db.Close()
}

var _ repositories.UserRepository = (*UserRepository)(nil)
