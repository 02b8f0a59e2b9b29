package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainerrors "taskhub/internal/domain/errors"
)

func TestCheckOwnership(t *testing.T) {
	assert.NoError(t, CheckOwnership("user-1", "user-1"))

	assert.ErrorIs(t, CheckOwnership("user-1", "user-2"), domainerrors.ErrForbidden)
	assert.ErrorIs(t, CheckOwnership("", "user-2"), domainerrors.ErrForbidden)
	// Two empty ids still fail: an unauthenticated caller owns nothing.
	assert.ErrorIs(t, CheckOwnership("", ""), domainerrors.ErrForbidden)
}
