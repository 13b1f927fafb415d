package rank

import "expensezen/internal/domain/money"

type Entry struct {
	Rank          int
	UserID        string
	FullName      string
	Savings       money.Money
	GoalsComplete int64
}
