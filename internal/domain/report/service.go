package report

import (
	"context"
	"errors"
	"sort"

	"expensezen/internal/domain/budget"
	"expensezen/internal/domain/money"
	"expensezen/internal/domain/wallet"
)

const topCategoryCount = 4

type WalletReader interface {
	Get(ctx context.Context, userID string) (*wallet.State, error)
}

type BudgetLister interface {
	List(ctx context.Context, userID string) ([]budget.Budget, error)
}

type Service struct {
	wallets WalletReader
	budgets BudgetLister
}

func NewService(wallets WalletReader, budgets BudgetLister) *Service {
	return &Service{wallets: wallets, budgets: budgets}
}

// Overview summarises balances and budget spending. A user without a
// wallet row gets an empty overview.
func (s *Service) Overview(ctx context.Context, userID string) (*Overview, error) {
	overview := Overview{TopCategories: []CategorySpend{}}

	state, err := s.wallets.Get(ctx, userID)
	if errors.Is(err, wallet.ErrWalletNotFound) {
		return &overview, nil
	}
	if err != nil {
		return nil, err
	}
	overview.Balance = state.Balance
	overview.Savings = state.Savings
	overview.MonthlyLimit = state.MonthlyLimit
	overview.Spendings = state.Spendings

	budgets, err := s.budgets.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview.TotalExpenses, overview.TopCategories = topCategories(budgets, topCategoryCount)
	return &overview, nil
}

func topCategories(budgets []budget.Budget, n int) (money.Money, []CategorySpend) {
	byCategory := make(map[string]money.Money)
	var total money.Money
	for _, b := range budgets {
		byCategory[b.Category] = byCategory[b.Category].Add(b.Spent)
		total = total.Add(b.Spent)
	}

	items := make([]CategorySpend, 0, len(byCategory))
	for category, spent := range byCategory {
		if !spent.IsPositive() {
			continue
		}
		item := CategorySpend{Category: category, Spent: spent}
		if total.IsPositive() {
			item.Share = float64(spent) * 100 / float64(total)
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Spent != items[j].Spent {
			return items[i].Spent > items[j].Spent
		}
		return items[i].Category < items[j].Category
	})
	if len(items) > n {
		items = items[:n]
	}
	return total, items
}
