package group

import (
	"fmt"

	"expensezen/internal/domain/apperr"
)

var (
	ErrGroupNotFound  = fmt.Errorf("group budget %w", apperr.ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("group member %w", apperr.ErrNotFound)
	ErrUnknownMembers = fmt.Errorf("some members are unknown users: %w", apperr.ErrNotFound)
	ErrNotCreator     = fmt.Errorf("only the creator can delete a group budget: %w", apperr.ErrForbidden)
	ErrAlreadyPaid    = fmt.Errorf("share already paid: %w", apperr.ErrConflict)
)
