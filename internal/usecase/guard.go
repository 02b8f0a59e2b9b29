package usecase

import (
	domainerrors "taskhub/internal/domain/errors"
)

// CheckOwnership enforces the per-user data boundary: the authenticated user
// may only touch collections addressed by their own id. It runs before any
// task operation that names an owner in its path; repositories additionally
// scope their queries by owner, so a bypass here still cannot read foreign
// rows.
func CheckOwnership(resolvedUserID, requestedOwnerID string) error {
	if resolvedUserID == "" || resolvedUserID != requestedOwnerID {
		return domainerrors.ErrForbidden
	}

	return nil
}
