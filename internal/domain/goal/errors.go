package goal

import (
	"fmt"

	"expensezen/internal/domain/apperr"
)

var ErrGoalNotFound = fmt.Errorf("goal %w", apperr.ErrNotFound)
