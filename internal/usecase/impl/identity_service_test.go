package impl

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/config"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"
)

func registerAndLogin(t *testing.T, env *testEnv, email string) (userID, token string) {
	t.Helper()

	srv := env.userService()
	ctx := context.Background()

	registered, err := srv.Register(ctx, &usecase.RegisterInput{Email: email, Password: "a strong password"})
	require.NoError(t, err)

	output, err := srv.Login(ctx, &usecase.LoginInput{Email: email, Password: "a strong password"})
	require.NoError(t, err)

	return registered.User.ID, output.Token
}

func TestIdentityService_Resolve_SignedToken(t *testing.T) {
	env := newTestEnv(t, testConfig(config.TokenModeSigned))
	identity := env.identityService()

	userID, token := registerAndLogin(t, env, "one@example.com")

	user, err := identity.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "one@example.com", user.Email)
}

func TestIdentityService_Resolve_OpaqueToken(t *testing.T) {
	env := newTestEnv(t, testConfig(config.TokenModeOpaque))
	identity := env.identityService()

	userID, token := registerAndLogin(t, env, "one@example.com")

	user, err := identity.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestIdentityService_Resolve_RevokedOpaqueToken(t *testing.T) {
	env := newTestEnv(t, testConfig(config.TokenModeOpaque))
	identity := env.identityService()

	_, token := registerAndLogin(t, env, "one@example.com")
	env.sessions.Revoke(token)

	_, err := identity.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestIdentityService_Resolve_EmptyAndGarbageTokens(t *testing.T) {
	env := newTestEnv(t, testConfig(config.TokenModeSigned))
	identity := env.identityService()

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := identity.Resolve(context.Background(), token)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated, "token %q", token)
	}
}

// externalToken mints a signed token for a subject this instance never
// registered, the way a sibling service sharing the secret would.
func externalToken(t *testing.T, subject, email, name string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	if name != "" {
		claims["name"] = name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	return signed
}

func TestIdentityService_Resolve_UnknownSubjectWithoutAutoProvision(t *testing.T) {
	env := newTestEnv(t, testConfig(config.TokenModeSigned))
	identity := env.identityService()

	_, err := identity.Resolve(context.Background(), externalToken(t, "external-1", "ext@example.com", "Ext"))
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}

func TestIdentityService_Resolve_AutoProvisionsUnknownSubject(t *testing.T) {
	cfg := testConfig(config.TokenModeSigned)
	cfg.Auth.AutoProvisionIdentity = true
	env := newTestEnv(t, cfg)
	identity := env.identityService()
	ctx := context.Background()

	user, err := identity.Resolve(ctx, externalToken(t, "external-1", "ext@example.com", "Ext"))
	require.NoError(t, err)
	assert.Equal(t, "external-1", user.ID)
	assert.Equal(t, "ext@example.com", user.Email)
	assert.Equal(t, "Ext", user.Name)

	// The placeholder persisted and carries no usable password.
	stored, err := env.userRepo.FindByID(ctx, "external-1")
	require.NoError(t, err)
	assert.Empty(t, stored.PasswordHash)
	assert.False(t, env.hasher.Check("", stored.PasswordHash))

	// A second resolve reuses the record instead of re-provisioning.
	again, err := identity.Resolve(ctx, externalToken(t, "external-1", "ext@example.com", "Ext"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestIdentityService_AutoProvisionedUserCannotPasswordLogin(t *testing.T) {
	cfg := testConfig(config.TokenModeSigned)
	cfg.Auth.AutoProvisionIdentity = true
	env := newTestEnv(t, cfg)
	identity := env.identityService()
	ctx := context.Background()

	_, err := identity.Resolve(ctx, externalToken(t, "external-1", "ext@example.com", ""))
	require.NoError(t, err)

	_, err = env.userService().Login(ctx, &usecase.LoginInput{Email: "ext@example.com", Password: ""})
	require.Error(t, err)
}
