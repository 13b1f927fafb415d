package auth

import (
	"errors"

	"expensezen/internal/domain/apperr"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrMissingToken       = errors.New("authorization token required")
	ErrWeakPassword       = apperr.Invalid("password", "password must be at least 6 characters")
	ErrInvalidEmail       = apperr.Invalid("email", "enter a valid email")
)
