// Package session implements the opaque-token session registry: random
// tokens mapped to server-side session entries with a fixed TTL.
package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/pkg/errors"

	"taskhub/config"
	"taskhub/internal/domain/entity"
	"taskhub/internal/domain/service"
)

// tokenBytes gives 256 bits of entropy per token.
const tokenBytes = 32

// registry is the in-process implementation of service.SessionRegistry.
// A single mutex guards the table; every operation holds it for its full
// duration so concurrent calls never observe a half-written entry.
type registry struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
	ttl      time.Duration
	now      func() time.Time
}

// NewRegistry is the constructor for the session registry. The TTL comes
// from config and defaults to 24 hours.
func NewRegistry(cfg *config.Config) service.SessionRegistry {
	ttl := 24 * time.Hour
	if cfg != nil && cfg.Auth != nil && cfg.Auth.SessionTTL > 0 {
		ttl = cfg.Auth.SessionTTL
	}

	return newRegistry(ttl, time.Now)
}

func newRegistry(ttl time.Duration, now func() time.Time) *registry {
	return &registry{
		sessions: make(map[string]entity.Session),
		ttl:      ttl,
		now:      now,
	}
}

// Create generates a random url-safe token and stores the session under it.
func (r *registry) Create(userID, username string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[token] = entity.Session{
		UserID:    userID,
		Username:  username,
		CreatedAt: r.now(),
	}

	return token, nil
}

// Resolve looks up a token. Entries past the TTL are deleted on the spot and
// reported as absent; no background sweep is needed.
func (r *registry) Resolve(token string) (*entity.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[token]
	if !ok {
		return nil, false
	}

	if r.now().Sub(sess.CreatedAt) > r.ttl {
		delete(r.sessions, token)

		return nil, false
	}

	out := sess

	return &out, true
}

// Revoke deletes the session if present and reports whether it existed.
func (r *registry) Revoke(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[token]
	delete(r.sessions, token)

	return ok
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed to generate session token")
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
