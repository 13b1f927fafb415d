package wallet

import (
	"fmt"

	"expensezen/internal/domain/apperr"
)

var (
	ErrWalletNotFound    = fmt.Errorf("wallet %w", apperr.ErrNotFound)
	ErrInvalidTransition = fmt.Errorf("invalid transfer transition: %w", apperr.ErrConflict)
)
