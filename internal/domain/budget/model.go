package budget

import (
	"time"

	"expensezen/internal/domain/money"
)

type Budget struct {
	ID        string      `gorm:"type:uuid;primaryKey"`
	UserID    string      `gorm:"type:uuid;index;not null"`
	Category  string      `gorm:"not null"`
	Limit     money.Money `gorm:"column:limit_amount;type:bigint;not null"`
	Spent     money.Money `gorm:"type:bigint;not null;default:0"`
	CreatedAt time.Time   `gorm:"autoCreateTime"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime"`
}

type Usage string

const (
	UsageLow    Usage = "low"
	UsageMedium Usage = "medium"
	UsageHigh   Usage = "high"
)

// Remaining may be negative once the budget is overspent.
func (b Budget) Remaining() money.Money {
	return b.Limit.Sub(b.Spent)
}

// UsagePercent is spent over limit, in percent, not clamped.
func (b Budget) UsagePercent() float64 {
	if !b.Limit.IsPositive() {
		return 0
	}
	return float64(b.Spent) * 100 / float64(b.Limit)
}

func (b Budget) Usage() Usage {
	switch percent := b.UsagePercent(); {
	case percent < 30:
		return UsageLow
	case percent < 90:
		return UsageMedium
	default:
		return UsageHigh
	}
}

func (b Budget) Overspent() bool {
	return b.Spent > b.Limit
}

type OverspendEvent struct {
	BudgetID   string
	Category   string
	AmountOver money.Money
}

type CreateBudgetInput struct {
	UserID   string
	Category string
	Limit    money.Money
}

type EditBudgetInput struct {
	UserID   string
	BudgetID string
	Category string
	Limit    money.Money
	Spent    money.Money
}
