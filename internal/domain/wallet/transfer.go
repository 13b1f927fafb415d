package wallet

import (
	"errors"
	"fmt"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
)

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseValidating   Phase = "validating"
	PhaseTransferring Phase = "transferring"
	PhaseSucceeded    Phase = "succeeded"
	PhaseFailed       Phase = "failed"
)

// Transfer tracks one transfer intent between the wallet and savings
// buckets:
//
//	Idle -> Validating -> Transferring -> Succeeded | Failed -> Idle
//
// A validation failure returns the intent to Idle with the reason kept in
// Err. A persistence failure leaves it in Failed until acknowledged.
type Transfer struct {
	direction Direction
	input     string
	amount    money.Money
	phase     Phase
	err       error
}

func NewTransfer() *Transfer {
	return &Transfer{phase: PhaseIdle}
}

func (t *Transfer) Phase() Phase {
	return t.phase
}

func (t *Transfer) Direction() Direction {
	return t.direction
}

func (t *Transfer) Amount() money.Money {
	return t.amount
}

// Err is the reason of the last failure, nil after a success.
func (t *Transfer) Err() error {
	return t.err
}

// Reason is the human-readable message for the last failure.
func (t *Transfer) Reason() string {
	if t.err == nil {
		return ""
	}
	var funds *apperr.InsufficientFundsError
	if errors.As(t.err, &funds) {
		return funds.Reason()
	}
	var invalid *apperr.ValidationError
	if errors.As(t.err, &invalid) {
		return invalid.Message
	}
	return "Something went wrong. Try again."
}

func (t *Transfer) Submit(direction string, input string) error {
	if t.phase != PhaseIdle {
		return t.transitionError(PhaseValidating)
	}
	t.direction = Direction(direction)
	t.input = input
	t.amount = 0
	t.err = nil
	t.phase = PhaseValidating
	return nil
}

// Validate checks the submitted amount against the source bucket of state.
func (t *Transfer) Validate(state State) error {
	if t.phase != PhaseValidating {
		return t.transitionError(PhaseTransferring)
	}

	direction, err := ParseDirection(string(t.direction))
	if err != nil {
		return t.reject(err)
	}

	amount, err := money.Parse(t.input)
	if err != nil || !amount.IsPositive() {
		return t.reject(apperr.Invalid("amount", "Enter a valid amount."))
	}

	bucket := direction.Source()
	if available := state.available(bucket); amount > available {
		return t.reject(&apperr.InsufficientFundsError{Bucket: bucket, Available: available, Requested: amount})
	}
	if _, err := state.available(direction.Destination()).CheckedAdd(amount); err != nil {
		return t.reject(errAmountTooLarge())
	}

	t.direction = direction
	t.amount = amount
	t.phase = PhaseTransferring
	return nil
}

// Apply returns the state after moving the validated amount. The input
// state is not modified.
func (t *Transfer) Apply(state State) (State, error) {
	if t.phase != PhaseTransferring {
		return state, t.transitionError(PhaseSucceeded)
	}

	next := state
	var err error
	switch t.direction {
	case WalletToSaving:
		next.Balance = state.Balance.Sub(t.amount)
		next.Savings, err = state.Savings.CheckedAdd(t.amount)
	case SavingToWallet:
		next.Savings = state.Savings.Sub(t.amount)
		next.Balance, err = state.Balance.CheckedAdd(t.amount)
	}
	if err != nil {
		return state, errAmountTooLarge()
	}
	if next.Balance.IsNegative() || next.Savings.IsNegative() {
		bucket := t.direction.Source()
		return state, &apperr.InsufficientFundsError{Bucket: bucket, Available: state.available(bucket), Requested: t.amount}
	}
	return next, nil
}

// Complete records the outcome of the commit started by Apply.
func (t *Transfer) Complete(commitErr error) error {
	if t.phase != PhaseTransferring {
		return t.transitionError(PhaseSucceeded)
	}
	if commitErr != nil {
		t.err = commitErr
		t.phase = PhaseFailed
		return nil
	}
	t.err = nil
	t.phase = PhaseSucceeded
	return nil
}

// Acknowledge resets a finished transfer so a new one can be submitted.
func (t *Transfer) Acknowledge() error {
	switch t.phase {
	case PhaseSucceeded, PhaseFailed, PhaseIdle:
		t.phase = PhaseIdle
		t.input = ""
		return nil
	default:
		return t.transitionError(PhaseIdle)
	}
}

func (t *Transfer) reject(err error) error {
	t.err = err
	t.amount = 0
	t.phase = PhaseIdle
	return err
}

func (t *Transfer) transitionError(to Phase) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.phase, to)
}
