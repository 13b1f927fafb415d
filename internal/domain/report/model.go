package report

import "expensezen/internal/domain/money"

type CategorySpend struct {
	Category string
	Spent    money.Money
	// Share of total expenses, 0..100.
	Share float64
}

type Overview struct {
	Balance       money.Money
	Savings       money.Money
	MonthlyLimit  money.Money
	Spendings     money.Money
	TotalExpenses money.Money
	TopCategories []CategorySpend
}
