package impl

import (
	"context"
	"log/slog"

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

// identityService implements the IdentityUsecase interface. It is the only
// component that knows both credential flavors; everything downstream sees a
// resolved user.
type identityService struct {
	userRepo        repository.UserRepository
	txManager       repository.TransactionManager
	tokenService    service.TokenService
	sessionRegistry service.SessionRegistry
	tokenMode       string
	autoProvision   bool
	logger          *slog.Logger
}

// IdentityServiceParams holds dependencies for identityService, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	UserRepo        repository.UserRepository
	TxManager       repository.TransactionManager
	TokenService    service.TokenService
	SessionRegistry service.SessionRegistry
	Config          *config.Config
	Logger          *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	tokenMode := config.TokenModeSigned
	autoProvision := false
	if params.Config != nil && params.Config.Auth != nil {
		if params.Config.Auth.TokenMode != "" {
			tokenMode = params.Config.Auth.TokenMode
		}
		autoProvision = params.Config.Auth.AutoProvisionIdentity
	}

	return &identityService{
		userRepo:        params.UserRepo,
		txManager:       params.TxManager,
		tokenService:    params.TokenService,
		sessionRegistry: params.SessionRegistry,
		tokenMode:       tokenMode,
		autoProvision:   autoProvision,
		logger:          params.Logger,
	}
}

func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Resolve validates the credential and loads the user behind it. Every
// failure collapses into ErrUnauthenticated; the cause stays in the logs.
func (srv *identityService) Resolve(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, domainerrors.ErrUnauthenticated
	}

	subject, email, name, err := srv.resolveSubject(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByID(ctx, subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		srv.log(ctx).Error("Failed to load user during identity resolution", slog.String("subject", subject), slog.Any("error", err))

		return nil, domainerrors.ErrUnauthenticated
	}

	if !srv.autoProvision {
		srv.log(ctx).Warn("Valid token for unknown subject", slog.String("subject", subject))

		return nil, domainerrors.ErrUnauthenticated
	}

	return srv.provisionIdentity(ctx, subject, email, name)
}

// resolveSubject maps the raw token to a subject id plus whatever profile
// hints the credential carries.
func (srv *identityService) resolveSubject(ctx context.Context, token string) (subject, email, name string, err error) {
	if srv.tokenMode == config.TokenModeOpaque {
		sess, ok := srv.sessionRegistry.Resolve(token)
		if !ok {
			srv.log(ctx).Debug("Session token rejected")

			return "", "", "", domainerrors.ErrUnauthenticated
		}

		return sess.UserID, sess.Username, "", nil
	}

	claims, validateErr := srv.tokenService.Validate(token)
	if validateErr != nil {
		srv.log(ctx).Debug("Signed token rejected", slog.Any("error", validateErr))

		return "", "", "", domainerrors.ErrUnauthenticated
	}

	return claims.Subject, claims.Email, claims.Name, nil
}

// provisionIdentity materializes a placeholder user for a subject minted by
// an external issuer. Concurrent first requests for the same subject may race
// on the insert; the loser re-reads the winner's row.
func (srv *identityService) provisionIdentity(ctx context.Context, subject, email, name string) (*entity.User, error) {
	srv.log(ctx).Info("Auto-provisioning identity", slog.String("subject", subject))

	placeholder := &entity.User{
		ID:    subject,
		Email: email,
		Name:  name,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, findErr := userRepo.FindByID(ctx, subject); findErr == nil {
			return nil
		}

		return userRepo.Create(ctx, placeholder)
	})
	if err != nil {
		if provisioned, findErr := srv.userRepo.FindByID(ctx, subject); findErr == nil {
			return provisioned, nil
		}

		srv.log(ctx).Error("Failed to auto-provision identity", slog.String("subject", subject), slog.Any("error", err))

		return nil, domainerrors.ErrUnauthenticated
	}

	provisioned, err := srv.userRepo.FindByID(ctx, subject)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated
	}

	return provisioned, nil
}
