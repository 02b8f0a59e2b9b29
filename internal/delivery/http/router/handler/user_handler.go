// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/response"
	"taskhub/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// sessionCookieName is the cookie Login sets so browser clients authenticate
// without managing the Authorization header themselves.
const sessionCookieName = "session_token"

// UserHandler holds dependencies for account-related handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

// userView is the account payload returned to clients. The password hash
// never leaves the service.
type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newUserView(id, email, name string) userView {
	return userView{ID: id, Email: email, Name: name}
}

// Register handles the account registration request.
func (h *UserHandler) Register(c echo.Context) error {
	input := new(usecase.RegisterInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated,
		newUserView(output.User.ID, output.User.Email, output.User.Name),
		"User registered successfully")
}

// loginView is the login payload: the credential plus the account it
// belongs to.
type loginView struct {
	Token     string   `json:"token"`
	TokenType string   `json:"tokenType"`
	User      userView `json:"user"`
}

// Login handles the login request. On success the credential is returned in
// the body and mirrored into an HttpOnly cookie for browser clients.
func (h *UserHandler) Login(c echo.Context) error {
	input := new(usecase.LoginInput)
	if err := c.Bind(input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    output.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return response.Success(c, http.StatusOK, loginView{
		Token:     output.Token,
		TokenType: output.TokenType,
		User:      newUserView(output.User.ID, output.User.Email, output.User.Name),
	}, "Login successful")
}

// Logout handles the logout request. It revokes the credential the request
// authenticated with and clears the session cookie. Idempotent.
func (h *UserHandler) Logout(c echo.Context) error {
	token, _ := c.Get(middleware.KeySessionToken).(string)

	if err := h.uc.Logout(c.Request().Context(), &usecase.LogoutInput{Token: token}); err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// Me handles the request for the authenticated user's own profile.
func (h *UserHandler) Me(c echo.Context) error {
	userID, ok := c.Get(middleware.KeyUserID).(string)
	if !ok || userID == "" {
		return response.Unauthorized(c, "UNAUTHENTICATED", "could not validate credentials")
	}

	user, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserView(user.ID, user.Email, user.Name), "Profile retrieved successfully")
}
