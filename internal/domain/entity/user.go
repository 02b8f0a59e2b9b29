// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity record. The ID is immutable once assigned: it is
// either generated here at registration, or carried in from a trusted token
// issuer when auto-provisioning is enabled, in which case PasswordHash stays
// empty and the account cannot log in with a password against this instance.
type User struct {
	ID           string    // Stable unique identifier, never reused or rewritten.
	Email        string    // Unique login identifier, case-sensitive as stored.
	Name         string    // Optional display name.
	PasswordHash string    // bcrypt hash; never exposed outside the persistence and auth layers.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}

// NewUserID generates a fresh server-side user identifier.
func NewUserID() string {
	return uuid.NewString()
}
