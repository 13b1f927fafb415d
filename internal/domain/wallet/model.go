package wallet

import (
	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
)

// State is the wallet projection of a users row.
type State struct {
	UserID       string      `gorm:"column:id;primaryKey"`
	Balance      money.Money `gorm:"column:balance"`
	Savings      money.Money `gorm:"column:savings"`
	MonthlyLimit money.Money `gorm:"column:monthly_limit"`
	Spendings    money.Money `gorm:"column:spendings"`
}

func (State) TableName() string {
	return "users"
}

// Total is the amount conserved by transfers.
func (s State) Total() money.Money {
	return s.Balance.Add(s.Savings)
}

type Direction string

const (
	WalletToSaving Direction = "walletToSaving"
	SavingToWallet Direction = "savingToWallet"
)

func ParseDirection(value string) (Direction, error) {
	switch Direction(value) {
	case WalletToSaving, SavingToWallet:
		return Direction(value), nil
	default:
		return "", apperr.Invalid("direction", "must be walletToSaving or savingToWallet")
	}
}

const (
	BucketWallet = "wallet"
	BucketSaving = "saving"
)

// Source names the bucket a transfer draws from.
func (d Direction) Source() string {
	if d == SavingToWallet {
		return BucketSaving
	}
	return BucketWallet
}

func (d Direction) Destination() string {
	if d == SavingToWallet {
		return BucketWallet
	}
	return BucketSaving
}

func (s State) available(bucket string) money.Money {
	if bucket == BucketSaving {
		return s.Savings
	}
	return s.Balance
}

// Debit takes amount from the spendable balance for a purchase or a group
// share and counts it against the month.
func (s *State) Debit(amount money.Money) error {
	if !amount.IsPositive() {
		return apperr.Invalid("amount", "Enter a valid amount.")
	}
	if s.Balance < amount {
		return &apperr.InsufficientFundsError{Bucket: BucketWallet, Available: s.Balance, Requested: amount}
	}
	spendings, err := s.Spendings.CheckedAdd(amount)
	if err != nil {
		return errAmountTooLarge()
	}
	s.Balance = s.Balance.Sub(amount)
	s.Spendings = spendings
	s.lowerMonthlyLimit(amount)
	return nil
}

// TopUp credits the wallet from outside; it is the only operation that
// changes Total.
func (s *State) TopUp(amount money.Money) error {
	if !amount.IsPositive() {
		return apperr.Invalid("amount", "Enter a valid amount.")
	}
	balance, err := s.Balance.CheckedAdd(amount)
	if err != nil {
		return errAmountTooLarge()
	}
	s.Balance = balance
	return nil
}

func (s *State) SetMonthlyLimit(amount money.Money) error {
	if amount.IsNegative() {
		return apperr.Invalid("amount", "monthly limit cannot be negative")
	}
	s.MonthlyLimit = amount
	return nil
}

// ConsumeMonthlyLimit lowers the remaining monthly allowance. It may go
// below zero.
func (s *State) ConsumeMonthlyLimit(amount money.Money) {
	if amount.IsPositive() {
		s.lowerMonthlyLimit(amount)
	}
}

// lowerMonthlyLimit stops at -MaxAmount rather than wrapping.
func (s *State) lowerMonthlyLimit(amount money.Money) {
	next, err := s.MonthlyLimit.CheckedSub(amount)
	if err != nil {
		next = -money.MaxAmount
	}
	s.MonthlyLimit = next
}

func errAmountTooLarge() error {
	return apperr.Invalid("amount", "Amount is too large.")
}
