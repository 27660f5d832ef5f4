package auth

import (
	"github.com/MMXXXII/educational-platform/internal/errors"
	"github.com/MMXXXII/educational-platform/internal/model"
)

// Authorize checks a resolved principal against an allowed role set.
// A disabled account is denied regardless of role. Pure function, no side
// effects; returns nil when the principal may proceed.
func Authorize(principal *model.User, allowed ...model.Role) error {
	if principal == nil {
		return errors.ErrUnauthenticated
	}
	if principal.Disabled {
		return errors.ErrAccountDisabled
	}
	for _, role := range allowed {
		if principal.Role == role {
			return nil
		}
	}
	return errors.ErrForbidden
}
