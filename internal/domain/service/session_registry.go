package service

import "taskhub/internal/domain/entity"

// SessionRegistry is the opaque-token alternative to TokenService: a random
// token maps to a server-side session entry with a fixed TTL. Unlike signed
// tokens it supports immediate revocation. All operations are atomic with
// respect to each other.
type SessionRegistry interface {
	// Create generates a cryptographically random url-safe token and stores
	// a session entry for the user under it.
	Create(userID, username string) (string, error)

	// Resolve looks up the token. Expired entries are purged lazily and
	// reported as absent. The boolean is false when no valid session exists.
	Resolve(token string) (*entity.Session, bool)

	// Revoke deletes the session if present and reports whether it existed.
	// Idempotent.
	Revoke(token string) bool
}
