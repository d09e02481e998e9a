package domain

import "time"

// AdminUser can sign in to the dashboard and manage content.
type AdminUser struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
}

// RoleAdmin is the only role with write access to the admin API.
const RoleAdmin = "admin"
