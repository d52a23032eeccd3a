package domain

import "time"

// User is the domain entity for a user account.
// Accounts are deactivated, never hard-deleted; a deactivated user keeps
// its ID but the username is salted so the name can be registered again.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}
