package idempotency

import (
	"fmt"

	"expensezen/internal/domain/apperr"
)

var (
	ErrKeyPayloadMismatch = fmt.Errorf("idempotency key reused with a different request: %w", apperr.ErrConflict)
	ErrRequestInProgress  = fmt.Errorf("request with this idempotency key is in progress: %w", apperr.ErrConflict)
)
