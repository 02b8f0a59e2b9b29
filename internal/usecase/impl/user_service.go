// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"taskhub/config"
	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/domain/service"
	"taskhub/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager       repository.TransactionManager
	userRepo        repository.UserRepository
	hasher          service.PasswordHasher
	tokenService    service.TokenService
	sessionRegistry service.SessionRegistry
	tokenMode       string
	accessTokenTTL  time.Duration
	logger          *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager       repository.TransactionManager
	UserRepo        repository.UserRepository
	Hasher          service.PasswordHasher
	TokenService    service.TokenService
	SessionRegistry service.SessionRegistry
	Config          *config.Config
	Logger          *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	tokenMode := config.TokenModeSigned
	accessTokenTTL := 15 * time.Minute
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.TokenMode != "" {
			tokenMode = params.Config.Auth.TokenMode
		}
		if params.Config.Auth.AccessTokenTTL > 0 {
			accessTokenTTL = params.Config.Auth.AccessTokenTTL
		}
	}

	return &userService{
		txManager:       params.TxManager,
		userRepo:        params.UserRepo,
		hasher:          params.Hasher,
		tokenService:    params.TokenService,
		sessionRegistry: params.SessionRegistry,
		tokenMode:       tokenMode,
		accessTokenTTL:  accessTokenTTL,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete account registration process.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	// Hash outside the transaction (bcrypt is CPU-bound). Truncation to the
	// primitive's byte limit happens inside the hasher.
	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		if errors.Is(err, service.ErrCredentialProcessing) {
			return nil, domainerrors.ErrCredentialProcessing.WrapMessage("failed to hash password during registration")
		}

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newUser := &entity.User{
		ID:           entity.NewUserID(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
	}

	// The duplicate check and the insert share one transaction, so racing
	// registrations on the same email yield exactly one success.
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		_, findErr := userRepo.FindByEmail(ctx, input.Email)
		if findErr == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		}
		if !errors.Is(findErr, repository.ErrUserNotFound) {
			return errors.Wrap(findErr, "failed to check email availability")
		}

		if createErr := userRepo.Create(ctx, newUser); createErr != nil {
			if errors.Is(createErr, repository.ErrEmailExists) {
				return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
			}

			return errors.Wrap(createErr, "failed to create user during registration")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.String("userID", newUser.ID))

	return &usecase.RegisterOutput{User: newUser}, nil
}

// Login orchestrates the credential check and credential issuance.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email))

	loggedInUser, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown email and wrong password share the same failure.
			srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
		}

		return nil, errors.Wrap(err, "failed to load user for login")
	}

	// Auto-provisioned identities carry no password hash and cannot log in
	// with a password; Check rejects the empty hash as malformed.
	if !srv.hasher.Check(input.Password, loggedInUser.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("login failed")
	}

	token, err := srv.issueCredential(loggedInUser)
	if err != nil {
		srv.log(ctx).Error("Failed to issue credential", slog.String("userID", loggedInUser.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue credential during login")
	}

	srv.log(ctx).Debug("User logged in successfully", slog.String("userID", loggedInUser.ID))

	return &usecase.LoginOutput{
		Token:     token,
		TokenType: "bearer",
		User:      loggedInUser,
	}, nil
}

// issueCredential mints a bearer credential in the configured token mode.
func (srv *userService) issueCredential(user *entity.User) (string, error) {
	if srv.tokenMode == config.TokenModeOpaque {
		token, err := srv.sessionRegistry.Create(user.ID, user.Email)
		if err != nil {
			return "", errors.Wrap(err, "failed to create session")
		}

		return token, nil
	}

	token, err := srv.tokenService.Issue(service.Claims{
		Subject: user.ID,
		Email:   user.Email,
		Name:    user.Name,
	}, srv.accessTokenTTL)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	return token, nil
}

// Logout revokes the presented credential. Opaque tokens are removed from the
// registry; signed tokens hold no server-side state, so revocation is a no-op
// and the client simply discards the token. Idempotent either way.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	if srv.tokenMode != config.TokenModeOpaque {
		srv.log(ctx).Debug("Logout in signed token mode, nothing to revoke")

		return nil
	}

	revoked := srv.sessionRegistry.Revoke(input.Token)
	srv.log(ctx).Info("Logout processed", slog.Bool("revoked", revoked))

	return nil
}

// GetProfile loads the account record for the authenticated user.
func (srv *userService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("profile not found")
		}

		return nil, errors.Wrap(err, "failed to load profile")
	}

	return user, nil
}
