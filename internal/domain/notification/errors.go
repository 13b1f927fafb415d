package notification

import (
	"fmt"

	"expensezen/internal/domain/apperr"
)

var ErrNotificationNotFound = fmt.Errorf("notification %w", apperr.ErrNotFound)
