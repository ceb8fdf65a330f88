package model

import "time"

// UserID uniquely identifies a user across the system
type UserID int64

// Role controls which administrative operations a user may perform
type Role string

const (
	RolePlayer Role = "player"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RolePlayer || r == RoleAdmin
}

// User is a registered account. PasswordHash is a bcrypt hash and never leaves the server.
type User struct {
	ID           UserID    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Identity is the authenticated caller resolved from a credential token
type Identity struct {
	UserID UserID
	Email  string
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
