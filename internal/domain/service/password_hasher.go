// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "github.com/pkg/errors"

// ErrCredentialProcessing is returned when the hashing primitive itself fails
// (rejected input even after truncation and fallback shortening, or a corrupt
// stored hash). It is distinct from a plain mismatch so callers can log the
// cause while presenting a generic message to the end user.
var ErrCredentialProcessing = errors.New("password could not be processed")

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (bcrypt), keeping the domain pure.
//
// Both Hash and Check apply the same deterministic truncation to inputs longer
// than the primitive's byte limit, so a password hashed after truncation still
// verifies through the same rule.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash. It returns false on
	// mismatch and on malformed stored hashes; it never panics.
	Check(password, hash string) bool
}
