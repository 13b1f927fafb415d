package budget

import (
	"strings"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
)

const maxCategoryLength = 50

func ValidateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", apperr.Invalid("category", "category is required")
	}
	if len([]rune(category)) > maxCategoryLength {
		return "", apperr.Invalid("category", "category is too long")
	}
	return category, nil
}

func ValidateLimit(limit money.Money) error {
	if !limit.IsPositive() {
		return apperr.Invalid("limit", "limit must be greater than zero")
	}
	return nil
}

// RecordSpend adds delta to spent, clamping at zero. A negative delta is a
// correction. When the result is above the limit, the part of this spend
// that lies above it is reported as an overspend. Spent never leaves the
// money range; such a delta is rejected and spent is left unchanged.
func (b *Budget) RecordSpend(delta money.Money) (*OverspendEvent, error) {
	before := b.Spent
	after, err := before.CheckedAdd(delta)
	if err != nil {
		return nil, apperr.Invalid("amount", "Amount is too large.")
	}
	if after.IsNegative() {
		after = 0
	}
	b.Spent = after

	if !b.Overspent() {
		return nil, nil
	}
	over := after.Sub(money.Max(before, b.Limit))
	if !over.IsPositive() {
		return nil, nil
	}
	return &OverspendEvent{BudgetID: b.ID, Category: b.Category, AmountOver: over}, nil
}

// Edit replaces category, limit and spent together and returns how much
// spent grew. A decrease returns zero: lowering spent releases nothing back
// to the monthly limit.
func (b *Budget) Edit(category string, limit, spent money.Money) (money.Money, error) {
	category, err := ValidateCategory(category)
	if err != nil {
		return 0, err
	}
	if err := ValidateLimit(limit); err != nil {
		return 0, err
	}
	if spent.IsNegative() {
		return 0, apperr.Invalid("spent", "spent cannot be negative")
	}

	increase := money.Max(spent.Sub(b.Spent), 0)
	b.Category = category
	b.Limit = limit
	b.Spent = spent
	return increase, nil
}
