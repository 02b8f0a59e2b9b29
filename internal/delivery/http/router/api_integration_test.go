package router_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"taskhub/config"
	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router"
	"taskhub/internal/delivery/http/router/handler"
	"taskhub/internal/delivery/http/validator"
	"taskhub/internal/infra/auth"
	"taskhub/internal/infra/persistence/memory"
	"taskhub/internal/infra/session"
	"taskhub/internal/usecase/impl"
)

// newTestServer assembles the full HTTP surface over the in-memory backend,
// the same wiring the binary does minus fx.
func newTestServer(t *testing.T, tokenMode string) *echo.Echo {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "integration-secret"
	cfg.Auth = &config.AuthConfig{
		TokenMode:      tokenMode,
		BcryptCost:     bcrypt.MinCost,
		AccessTokenTTL: time.Minute,
		SessionTTL:     time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	taskRepo := memory.NewTaskRepository(store)
	txManager := memory.NewTransactionManager(store)

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	sessions := session.NewRegistry(cfg)
	hasher := auth.NewBcryptHasher(cfg)

	userUsecase := impl.NewUserService(impl.UserServiceParams{
		TxManager:       txManager,
		UserRepo:        userRepo,
		Hasher:          hasher,
		TokenService:    tokens,
		SessionRegistry: sessions,
		Config:          cfg,
		Logger:          logger,
	})
	taskUsecase := impl.NewTaskService(impl.TaskServiceParams{
		TaskRepo:  taskRepo,
		TxManager: txManager,
		Logger:    logger,
	})
	identityUsecase := impl.NewIdentityService(impl.IdentityServiceParams{
		UserRepo:        userRepo,
		TxManager:       txManager,
		TokenService:    tokens,
		SessionRegistry: sessions,
		Config:          cfg,
		Logger:          logger,
	})

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	r := router.NewRouter(router.RouterParams{
		UserHandler:         handler.NewUserHandler(userUsecase, logger),
		TaskHandler:         handler.NewTaskHandler(taskUsecase, logger),
		AuthMiddleware:      middleware.NewAuthMiddleware(identityUsecase),
		RequestIDMiddleware: middleware.NewRequestIDMiddleware(logger),
	})
	r.RegisterRoutes(e)

	return e
}

type apiResponse struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(e *echo.Echo, method, path, token, body string) (*httptest.ResponseRecorder, *apiResponse) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	parsed := new(apiResponse)
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), parsed)
	}

	return rec, parsed
}

func registerAndLogin(t *testing.T, e *echo.Echo, email string) (userID, token string) {
	t.Helper()

	payload := fmt.Sprintf(`{"email":%q,"password":"a strong password","name":"Test"}`, email)
	rec, _ := doJSON(e, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, resp := doJSON(e, http.MethodPost, "/auth/login", "",
		fmt.Sprintf(`{"email":%q,"password":"a strong password"}`, email))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)
	require.NotEmpty(t, login.User.ID)

	return login.User.ID, login.Token
}

func TestAPI_HealthCheck(t *testing.T) {
	e := newTestServer(t, config.TokenModeSigned)

	rec, _ := doJSON(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RegisterValidation(t *testing.T) {
	e := newTestServer(t, config.TokenModeSigned)

	// Malformed email and short password are rejected before the usecase runs.
	rec, _ := doJSON(e, http.MethodPost, "/auth/register", "", `{"email":"not-an-email","password":"a strong password"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(e, http.MethodPost, "/auth/register", "", `{"email":"ok@example.com","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_RegisterDuplicateEmail(t *testing.T) {
	e := newTestServer(t, config.TokenModeSigned)

	body := `{"email":"dup@example.com","password":"a strong password"}`
	rec, _ := doJSON(e, http.MethodPost, "/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = doJSON(e, http.MethodPost, "/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_LoginWrongPassword(t *testing.T) {
	e := newTestServer(t, config.TokenModeSigned)
	registerAndLogin(t, e, "one@example.com")

	rec, _ := doJSON(e, http.MethodPost, "/auth/login", "", `{"email":"one@example.com","password":"wrong password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_MeRequiresAuth(t *testing.T) {
	e := newTestServer(t, config.TokenModeSigned)

	rec, resp := doJSON(e, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "could not validate credentials", resp.Message)

	rec, resp = doJSON(e, http.MethodGet, "/auth/me", "garbage-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "could not validate credentials", resp.Message)
}

func TestAPI_TaskLifecycle(t *testing.T) {
	for _, mode := range []string{config.TokenModeSigned, config.TokenModeOpaque} {
		t.Run(mode, func(t *testing.T) {
			e := newTestServer(t, mode)
			userID, token := registerAndLogin(t, e, "owner@example.com")
			base := "/users/" + userID + "/tasks"

			// Create.
			rec, resp := doJSON(e, http.MethodPost, base, token, `{"title":"Buy milk","description":"2 liters"}`)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var task struct {
				ID        string `json:"id"`
				Completed bool   `json:"completed"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &task))
			require.NotEmpty(t, task.ID)
			assert.False(t, task.Completed)

			// List.
			rec, resp = doJSON(e, http.MethodGet, base, token, "")
			require.Equal(t, http.StatusOK, rec.Code)
			var tasks []json.RawMessage
			require.NoError(t, json.Unmarshal(resp.Data, &tasks))
			assert.Len(t, tasks, 1)

			// Update.
			rec, _ = doJSON(e, http.MethodPut, base+"/"+task.ID, token, `{"title":"Buy oat milk"}`)
			require.Equal(t, http.StatusOK, rec.Code)

			// Complete, twice: idempotent.
			rec, _ = doJSON(e, http.MethodPatch, base+"/"+task.ID+"/complete", token, "")
			require.Equal(t, http.StatusOK, rec.Code)
			rec, resp = doJSON(e, http.MethodPatch, base+"/"+task.ID+"/complete", token, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var completed struct {
				Title     string `json:"title"`
				Completed bool   `json:"completed"`
			}
			require.NoError(t, json.Unmarshal(resp.Data, &completed))
			assert.Equal(t, "Buy oat milk", completed.Title)
			assert.True(t, completed.Completed)

			// Completed filter.
			rec, resp = doJSON(e, http.MethodGet, base+"?completed=true", token, "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.NoError(t, json.Unmarshal(resp.Data, &tasks))
			assert.Len(t, tasks, 1)

			// Delete, then 404 on re-read.
			rec, _ = doJSON(e, http.MethodDelete, base+"/"+task.ID, token, "")
			require.Equal(t, http.StatusNoContent, rec.Code)
			rec, _ = doJSON(e, http.MethodGet, base+"/"+task.ID, token, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestAPI_OwnershipBoundary(t *testing.T) {
	e := newTestServer(t, config.TokenModeSigned)

	aliceID, aliceToken := registerAndLogin(t, e, "alice@example.com")
	bobID, bobToken := registerAndLogin(t, e, "bob@example.com")

	rec, resp := doJSON(e, http.MethodPost, "/users/"+aliceID+"/tasks", aliceToken, `{"title":"private"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var task struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &task))

	// Bob cannot address Alice's collection at all.
	rec, _ = doJSON(e, http.MethodGet, "/users/"+aliceID+"/tasks", bobToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(e, http.MethodDelete, "/users/"+aliceID+"/tasks/"+task.ID, bobToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Alice's task id inside Bob's own collection is merely missing.
	rec, _ = doJSON(e, http.MethodGet, "/users/"+bobID+"/tasks/"+task.ID, bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Alice still sees her task.
	rec, _ = doJSON(e, http.MethodGet, "/users/"+aliceID+"/tasks/"+task.ID, aliceToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_CookieAuthentication(t *testing.T) {
	e := newTestServer(t, config.TokenModeOpaque)
	_, token := registerAndLogin(t, e, "cookie@example.com")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_LogoutRevokesOpaqueSession(t *testing.T) {
	e := newTestServer(t, config.TokenModeOpaque)
	_, token := registerAndLogin(t, e, "one@example.com")

	rec, _ := doJSON(e, http.MethodGet, "/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(e, http.MethodPost, "/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The credential is dead from this point on.
	rec, _ = doJSON(e, http.MethodGet, "/auth/me", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A second logout cannot authenticate anymore either; the API stays
	// uniform instead of special-casing the revoked token.
	rec, _ = doJSON(e, http.MethodPost, "/auth/logout", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
