// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role labels an account as a regular user or an administrator.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account that owns files and receives grants. Registration and
// login live outside the core; the engine only resolves users by id or
// username.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
	Role         Role
	Enabled      bool
	CreatedAt    time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
