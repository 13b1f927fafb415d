package user

import (
	"fmt"

	"expensezen/internal/domain/apperr"
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("email already registered: %w", apperr.ErrConflict)
	ErrInvalidSearchField = apperr.Invalid("field", "must be email or fullName")
)
