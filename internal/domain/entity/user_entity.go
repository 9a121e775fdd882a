package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// The numeric ID is assigned by the store; UUID is the external-facing identifier.
// Password holds a bcrypt hash and is opaque everywhere outside the auth flow.
type User struct {
	ID              int64
	UUID            string
	Name            string
	Email           string
	Password        string
	Avatar          string // stored object/file name, empty when unset
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
