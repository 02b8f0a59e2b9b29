package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/domain/service"
)

const testSecret = "unit-test-secret"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestJWTService_IssueAndValidate_RoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newJWTService(testSecret, fixedClock(now))

	token, err := svc.Issue(service.Claims{
		Subject: "user-123",
		Email:   "someone@example.com",
		Name:    "Someone",
	}, 15*time.Minute)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "someone@example.com", claims.Email)
	assert.Equal(t, "Someone", claims.Name)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, now.Add(15*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestJWTService_Validate_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newJWTService(testSecret, fixedClock(issuedAt))

	token, err := issuer.Issue(service.Claims{Subject: "user-123"}, time.Minute)
	require.NoError(t, err)

	// Same secret, clock past the expiry.
	verifier := newJWTService(testSecret, fixedClock(issuedAt.Add(2*time.Minute)))

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_Validate_ZeroTTLIsImmediatelyInvalid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newJWTService(testSecret, fixedClock(now))

	token, err := issuer.Issue(service.Claims{Subject: "user-123"}, 0)
	require.NoError(t, err)

	verifier := newJWTService(testSecret, fixedClock(now.Add(time.Second)))

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_Validate_WrongSecret(t *testing.T) {
	now := time.Now()
	issuer := newJWTService(testSecret, fixedClock(now))

	token, err := issuer.Issue(service.Claims{Subject: "user-123"}, time.Hour)
	require.NoError(t, err)

	verifier := newJWTService("a different secret", fixedClock(now))

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_Validate_TamperedSignature(t *testing.T) {
	now := time.Now()
	svc := newJWTService(testSecret, fixedClock(now))

	token, err := svc.Issue(service.Claims{Subject: "user-123"}, time.Hour)
	require.NoError(t, err)

	// Flip the last character of the signature segment.
	tampered := token[:len(token)-1]
	if token[len(token)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = svc.Validate(tampered)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_Validate_Garbage(t *testing.T) {
	svc := newJWTService(testSecret, time.Now)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(input)
		assert.ErrorIs(t, err, service.ErrTokenInvalid, "input %q", input)
	}
}

// signExternal mints a token the way an external issuer sharing our secret
// would, with full control over the claim set.
func signExternal(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	return signed
}

func TestJWTService_Validate_SubjectClaimFallback(t *testing.T) {
	now := time.Now()
	svc := newJWTService(testSecret, fixedClock(now))
	exp := now.Add(time.Hour).Unix()

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		subject string
	}{
		{"sub wins", jwt.MapClaims{"sub": "a", "id": "b", "user_id": "c", "exp": exp}, "a"},
		{"id when no sub", jwt.MapClaims{"id": "b", "user_id": "c", "exp": exp}, "b"},
		{"user_id last", jwt.MapClaims{"user_id": "c", "exp": exp}, "c"},
		{"empty sub falls through", jwt.MapClaims{"sub": "", "id": "b", "exp": exp}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Validate(signExternal(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.subject, claims.Subject)
		})
	}
}

func TestJWTService_Validate_NoSubjectClaim(t *testing.T) {
	now := time.Now()
	svc := newJWTService(testSecret, fixedClock(now))

	token := signExternal(t, jwt.MapClaims{"email": "x@example.com", "exp": now.Add(time.Hour).Unix()})

	_, err := svc.Validate(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_Validate_MissingExpiry(t *testing.T) {
	now := time.Now()
	svc := newJWTService(testSecret, fixedClock(now))

	token := signExternal(t, jwt.MapClaims{"sub": "user-123"})

	_, err := svc.Validate(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}

func TestJWTService_Validate_RejectsUnsignedToken(t *testing.T) {
	now := time.Now()
	svc := newJWTService(testSecret, fixedClock(now))

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-123",
		"exp": now.Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, service.ErrTokenInvalid)
}
