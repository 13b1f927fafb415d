// Package apperr defines the error kinds shared by every domain package.
//
// Domain packages declare their own sentinels wrapping one of the kinds
// below, so transport code can branch on the kind with errors.Is while
// logs keep the specific message.
package apperr

import (
	"errors"
	"fmt"

	"expensezen/internal/domain/money"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrPersistence       = errors.New("persistence failure")
)

type ValidationError struct {
	Field   string
	Message string
}

func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

type InsufficientFundsError struct {
	Bucket    string
	Available money.Money
	Requested money.Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient %s balance: available %s, requested %s", e.Bucket, e.Available, e.Requested)
}

// Reason is the message shown to the user next to the amount field.
func (e *InsufficientFundsError) Reason() string {
	return "Insufficient " + e.Bucket + " balance."
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// Persistence marks err as a store failure. Nil stays nil; errors that
// already carry a domain kind are returned unchanged.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

func IsDomain(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrPersistence)
}
