package entity

import "time"

// Role is a named authorization bucket. Static reference data, seeded once.
// Many-to-many with User via user_roles; the first user_roles row (by id)
// is treated as the user's primary role.
type Role struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission is a named grantable capability. Static reference data.
type Permission struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PermissionGrant is a user's directly-granted permission as resolved at read time.
type PermissionGrant struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}
