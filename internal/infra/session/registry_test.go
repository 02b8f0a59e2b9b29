package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock for TTL tests.
type fakeClock struct {
	mu sync.Mutex
	at time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{at: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.at
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.at = c.at.Add(d)
}

func TestRegistry_CreateAndResolve(t *testing.T) {
	reg := newRegistry(24*time.Hour, time.Now)

	token, err := reg.Create("user-1", "one@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sess, ok := reg.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, "one@example.com", sess.Username)
}

func TestRegistry_TokensAreUniqueAndOpaque(t *testing.T) {
	reg := newRegistry(24*time.Hour, time.Now)

	seen := make(map[string]struct{})
	for range 100 {
		token, err := reg.Create("user-1", "one@example.com")
		require.NoError(t, err)

		// 32 random bytes base64url-encoded without padding.
		assert.Len(t, token, 43)
		assert.NotContains(t, token, "user-1")

		_, dup := seen[token]
		assert.False(t, dup, "token issued twice")
		seen[token] = struct{}{}
	}
}

func TestRegistry_Resolve_UnknownToken(t *testing.T) {
	reg := newRegistry(24*time.Hour, time.Now)

	sess, ok := reg.Resolve("no-such-token")
	assert.False(t, ok)
	assert.Nil(t, sess)
}

func TestRegistry_Resolve_ExpiredTokenIsPurged(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	reg := newRegistry(24*time.Hour, clock.Now)

	token, err := reg.Create("user-1", "one@example.com")
	require.NoError(t, err)

	// Just inside the window.
	clock.Advance(24*time.Hour - time.Second)
	_, ok := reg.Resolve(token)
	assert.True(t, ok)

	// Just past it.
	clock.Advance(2 * time.Second)
	_, ok = reg.Resolve(token)
	assert.False(t, ok)

	// The entry is gone, not merely hidden: even winding the clock back
	// does not revive it.
	clock.Advance(-10 * time.Hour)
	_, ok = reg.Resolve(token)
	assert.False(t, ok)
}

func TestRegistry_Revoke_Idempotent(t *testing.T) {
	reg := newRegistry(24*time.Hour, time.Now)

	token, err := reg.Create("user-1", "one@example.com")
	require.NoError(t, err)

	assert.True(t, reg.Revoke(token))

	_, ok := reg.Resolve(token)
	assert.False(t, ok)

	assert.False(t, reg.Revoke(token))
	assert.False(t, reg.Revoke("never-existed"))
}

func TestRegistry_RevokeOneSessionKeepsOthers(t *testing.T) {
	reg := newRegistry(24*time.Hour, time.Now)

	first, err := reg.Create("user-1", "one@example.com")
	require.NoError(t, err)
	second, err := reg.Create("user-1", "one@example.com")
	require.NoError(t, err)

	reg.Revoke(first)

	_, ok := reg.Resolve(second)
	assert.True(t, ok)
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := newRegistry(24*time.Hour, time.Now)

	var wg sync.WaitGroup
	tokens := make([]string, 50)

	for i := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := reg.Create("user-1", "one@example.com")
			assert.NoError(t, err)
			tokens[i] = token
		}()
	}
	wg.Wait()

	for _, token := range tokens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := reg.Resolve(token)
			assert.True(t, ok)
			reg.Revoke(token)
		}()
	}
	wg.Wait()

	for _, token := range tokens {
		_, ok := reg.Resolve(token)
		assert.False(t, ok)
	}
}
