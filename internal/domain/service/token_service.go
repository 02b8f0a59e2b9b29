package service

import (
	"time"

	"github.com/pkg/errors"
)

// ErrTokenInvalid is the single failure mode of Validate. Missing subject,
// wrong algorithm, bad signature and expiry all collapse into it so the
// delivery layer answers uniformly without leaking which check failed.
var ErrTokenInvalid = errors.New("token is invalid")

// Claims is the decoded content of a signed token.
type Claims struct {
	Subject   string    // The authenticated user id.
	Email     string    // Optional; used to materialize auto-provisioned identities.
	Name      string    // Optional display name from the issuer.
	IssuedAt  time.Time // When the token was minted.
	ExpiresAt time.Time // End of the validity window.
}

// TokenService defines the interface for issuing and validating signed
// bearer tokens. Implementations are pure functions of inputs, the signing
// secret and the clock; no server-side state is consulted.
type TokenService interface {
	// Issue creates a signed token for the claims, valid for ttl from now.
	// IssuedAt and ExpiresAt on the input are ignored and set internally.
	Issue(claims Claims, ttl time.Duration) (string, error)

	// Validate verifies signature and expiry and decodes the claims.
	// Any failure returns ErrTokenInvalid.
	Validate(tokenString string) (*Claims, error)
}
