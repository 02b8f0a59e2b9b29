// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"taskhub/config"
	"taskhub/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	// bcrypt only considers the first 72 bytes of input; newer versions of
	// the primitive reject longer inputs outright. Both Hash and Check
	// truncate to this limit so they always agree on the effective password.
	maxPasswordBytes = 72

	// Character-level shortening applied as a last resort when the
	// primitive rejects the input even after byte truncation.
	fallbackPasswordChars = 50
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost > 0 {
		cost = cfg.Auth.BcryptCost
	}

	return newBcryptHasher(cost)
}

func newBcryptHasher(cost int) *bcryptHasher {
	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation. Inputs over the byte limit
// are truncated on a whole-character boundary first.
func (h *bcryptHasher) Hash(password string) (string, error) {
	safe := truncateToByteLimit(password)

	hashed, err := bcrypt.GenerateFromPassword([]byte(safe), h.cost)
	if err == nil {
		return string(hashed), nil
	}

	// The primitive rejected the input even after byte truncation. Shorten
	// at the character level and retry once before giving up.
	runes := []rune(safe)
	if len(runes) > fallbackPasswordChars {
		runes = runes[:fallbackPasswordChars]
	}

	hashed, retryErr := bcrypt.GenerateFromPassword([]byte(string(runes)), h.cost)
	if retryErr != nil {
		return "", errors.Wrapf(service.ErrCredentialProcessing, "bcrypt rejected input: %v", retryErr)
	}

	return string(hashed), nil
}

// Check compares a plaintext password with a bcrypt hash, applying the same
// truncation rule as Hash. Mismatches and malformed stored hashes both
// report false; the caller cannot tell them apart and does not need to.
func (h *bcryptHasher) Check(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(truncateToByteLimit(password)))

	return err == nil
}

// truncateToByteLimit cuts the password to the bcrypt byte limit without
// splitting a multi-byte character: any rune broken by the cut is dropped
// entirely, matching what the hash side stored.
func truncateToByteLimit(password string) string {
	if len(password) <= maxPasswordBytes {
		return password
	}

	cut := []byte(password)[:maxPasswordBytes]
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRune(cut)
		if r == utf8.RuneError && size <= 1 {
			cut = cut[:len(cut)-1]

			continue
		}

		break
	}

	return string(cut)
}
