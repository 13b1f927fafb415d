package budget

import (
	"fmt"

	"expensezen/internal/domain/apperr"
)

var ErrBudgetNotFound = fmt.Errorf("budget %w", apperr.ErrNotFound)
