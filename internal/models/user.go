package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NameMarkerPrefix prefixes the key of the item that claims a user name
const NameMarkerPrefix = "NAME#"

// TimestampLayout is how creation times are stored and returned
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Table attribute names
const (
	AttrUserID = "userId"
	AttrName   = "name"
	AttrDate   = "date"
)

// User represents a registered user
type User struct {
	ID        string `json:"userId" dynamodbav:"userId" db:"user_id" validate:"required"`
	Name      string `json:"name" dynamodbav:"name" db:"name" validate:"required"`
	CreatedAt string `json:"date" dynamodbav:"date" db:"date" validate:"required"`
}

// NewUser creates a user with a generated ID and a creation timestamp taken from now
func NewUser(name string, now time.Time) *User {
	return &User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: FormatTimestamp(now),
	}
}

// Validate validates the user data
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	if IsNameMarkerKey(u.ID) {
		return fmt.Errorf("user ID must not start with %q", NameMarkerPrefix)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required")
	}
	if u.CreatedAt == "" {
		return fmt.Errorf("user creation date is required")
	}
	return nil
}

// NameMarker occupies the key slot for a name so that a conditional put can
// detect a second user claiming it. It carries no other attributes.
type NameMarker struct {
	Key string `dynamodbav:"userId"`
}

// NewNameMarker returns the marker for the given user name
func NewNameMarker(name string) NameMarker {
	return NameMarker{Key: NameMarkerKey(name)}
}

// NameMarkerKey derives the marker key for a user name
func NameMarkerKey(name string) string {
	return NameMarkerPrefix + name
}

// IsNameMarkerKey reports whether a table key belongs to a name marker
func IsNameMarkerKey(key string) bool {
	return strings.HasPrefix(key, NameMarkerPrefix)
}

// FormatTimestamp renders t in the stored timestamp layout
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
