// Package ledger coordinates the operations that touch more than one
// aggregate. Each runs in a single store transaction and applies its effects
// in a fixed order: the primary entity, then the dependent wallet or counter,
// then the notification. Events go out only after the commit.
package ledger

import (
	"context"

	"expensezen/internal/domain/budget"
	"expensezen/internal/domain/goal"
	"expensezen/internal/domain/group"
	"expensezen/internal/domain/money"
	"expensezen/internal/domain/notification"
	"expensezen/internal/domain/user"
	"expensezen/internal/domain/wallet"
)

// Store hands out repositories bound to the same transaction.
type Store interface {
	Transaction(ctx context.Context, fn func(Store) error) error
	Budgets() budget.Repository
	Goals() goal.Repository
	Groups() group.Repository
	Wallets() wallet.Repository
	Notifications() notification.Repository
	Users() user.Repository
}

type Recorder interface {
	Overspend(category string, amountOver money.Money)
	GoalCompleted()
	Transfer(direction string, phase string)
	SharePaid(amount money.Money)
}

type nopRecorder struct{}

func (nopRecorder) Overspend(string, money.Money) {}

func (nopRecorder) GoalCompleted() {}

func (nopRecorder) Transfer(string, string) {}

func (nopRecorder) SharePaid(money.Money) {}
