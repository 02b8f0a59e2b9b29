package middleware

import (
	"net/http"
	"strings"

	"taskhub/internal/delivery/http/response"
	"taskhub/internal/domain/entity"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Context keys the middleware populates for downstream handlers.
const (
	// KeyCurrentUser holds the resolved *entity.User.
	KeyCurrentUser = "currentUser"
	// KeyUserID holds the resolved user's id.
	KeyUserID = "userID"
	// KeySessionToken holds the raw credential, for logout.
	KeySessionToken = "sessionToken"
)

// sessionCookieNames are checked in order when no Authorization header
// carries a bearer token.
var sessionCookieNames = []string{"session_token", "access_token"}

// unauthenticatedMessage is the single 401 body. Missing, malformed, expired
// and revoked credentials all answer the same so the response never reveals
// which check failed.
const unauthenticatedMessage = "could not validate credentials"

// AuthMiddleware resolves the request's bearer credential into a user.
type AuthMiddleware struct {
	identity usecase.IdentityUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(identity usecase.IdentityUsecase) *AuthMiddleware {
	return &AuthMiddleware{identity: identity}
}

// Authenticate extracts the credential, resolves it through the identity
// usecase and stashes the user on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := ExtractToken(c.Request())
		if !ok {
			return response.Unauthorized(c, "UNAUTHENTICATED", unauthenticatedMessage)
		}

		user, err := m.identity.Resolve(c.Request().Context(), token)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", unauthenticatedMessage)
		}

		c.Set(KeyCurrentUser, user)
		c.Set(KeyUserID, user.ID)
		c.Set(KeySessionToken, token)

		return next(c)
	}
}

// RequireOwner checks that the authenticated user matches the owner id named
// by the given path parameter. It must be used AFTER Authenticate.
func (m *AuthMiddleware) RequireOwner(paramName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(KeyUserID).(string)
			if err := usecase.CheckOwnership(userID, c.Param(paramName)); err != nil {
				return response.Forbidden(c, "FORBIDDEN", "you can only access your own resources")
			}

			return next(c)
		}
	}
}

// CurrentUser returns the user Authenticate resolved, or nil.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(KeyCurrentUser).(*entity.User)

	return user
}

// ExtractToken pulls the bearer credential out of the request: the
// Authorization header first, then the session cookies in order. The Bearer
// scheme comparison is case-insensitive.
func ExtractToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token, true
			}
		}
	}

	for _, name := range sessionCookieNames {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value, true
		}
	}

	return "", false
}
