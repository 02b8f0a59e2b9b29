package usecase

import (
	"context"

	"taskhub/internal/domain/entity"
)

// IdentityUsecase turns a bearer credential into the user it stands for.
// It is the single entry point the authentication middleware calls; every
// failure surfaces as domainerrors.ErrUnauthenticated so the response never
// reveals which check rejected the request.
type IdentityUsecase interface {
	// Resolve validates the token (signature and expiry for signed tokens,
	// registry lookup and TTL for opaque ones) and loads the corresponding
	// user. When identity auto-provisioning is enabled, a valid token whose
	// subject has no local record materializes a placeholder user instead
	// of failing.
	Resolve(ctx context.Context, token string) (*entity.User, error)
}
