package impl

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/require"

	"taskhub/config"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/infra/auth"
	"taskhub/internal/infra/persistence/memory"
	"taskhub/internal/infra/session"
)

// testEnv wires the services against the real in-memory persistence layer,
// which is cheap enough that mocking it would only blur the tests.
type testEnv struct {
	cfg       *config.Config
	store     *memory.Store
	userRepo  repository.UserRepository
	taskRepo  repository.TaskRepository
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	tokens    service.TokenService
	sessions  service.SessionRegistry
	logger    *slog.Logger
}

func testConfig(tokenMode string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	cfg.Auth = &config.AuthConfig{
		TokenMode:      tokenMode,
		BcryptCost:     bcrypt.MinCost,
		AccessTokenTTL: time.Minute,
		SessionTTL:     time.Hour,
	}

	return cfg
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	store := memory.NewStore()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return &testEnv{
		cfg:       cfg,
		store:     store,
		userRepo:  memory.NewUserRepository(store),
		taskRepo:  memory.NewTaskRepository(store),
		txManager: memory.NewTransactionManager(store),
		hasher:    auth.NewBcryptHasher(cfg),
		tokens:    tokens,
		sessions:  session.NewRegistry(cfg),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (env *testEnv) userService() *userService {
	return NewUserService(UserServiceParams{
		TxManager:       env.txManager,
		UserRepo:        env.userRepo,
		Hasher:          env.hasher,
		TokenService:    env.tokens,
		SessionRegistry: env.sessions,
		Config:          env.cfg,
		Logger:          env.logger,
	}).(*userService)
}

func (env *testEnv) identityService() *identityService {
	return NewIdentityService(IdentityServiceParams{
		UserRepo:        env.userRepo,
		TxManager:       env.txManager,
		TokenService:    env.tokens,
		SessionRegistry: env.sessions,
		Config:          env.cfg,
		Logger:          env.logger,
	}).(*identityService)
}

func (env *testEnv) taskService() *taskService {
	return NewTaskService(TaskServiceParams{
		TaskRepo:  env.taskRepo,
		TxManager: env.txManager,
		Logger:    env.logger,
	}).(*taskService)
}
