package budget

import (
	"context"
	"errors"
	"sort"
	"testing"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
)

type fakeBudgetRepo struct {
	budgets map[string]*Budget
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: make(map[string]*Budget)}
}

func (r *fakeBudgetRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeBudgetRepo) List(ctx context.Context, userID string) ([]Budget, error) {
	var items []Budget
	for _, b := range r.budgets {
		if b.UserID == userID {
			items = append(items, *b)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Category < items[j].Category })
	return items, nil
}

func (r *fakeBudgetRepo) GetByID(ctx context.Context, userID, budgetID string) (*Budget, error) {
	b, ok := r.budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, ErrBudgetNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBudgetRepo) GetForUpdate(ctx context.Context, userID, budgetID string) (*Budget, error) {
	return r.GetByID(ctx, userID, budgetID)
}

func (r *fakeBudgetRepo) Create(ctx context.Context, budget *Budget) error {
	copied := *budget
	r.budgets[budget.ID] = &copied
	return nil
}

func (r *fakeBudgetRepo) Update(ctx context.Context, budget *Budget) error {
	return r.Create(ctx, budget)
}

func (r *fakeBudgetRepo) Delete(ctx context.Context, userID, budgetID string) (bool, error) {
	b, ok := r.budgets[budgetID]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(r.budgets, budgetID)
	return true, nil
}

func TestCreateBudgetStartsWithNothingSpent(t *testing.T) {
	repo := newFakeBudgetRepo()
	svc := NewService(repo)

	result, err := svc.CreateBudget(context.Background(), CreateBudgetInput{
		UserID:   "user-1",
		Category: "  Food ",
		Limit:    money.FromMajor(300),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Category != "Food" {
		t.Fatalf("expected category trimmed, got %q", result.Category)
	}
	if result.Spent != 0 || result.Remaining() != money.FromMajor(300) {
		t.Fatalf("expected fresh budget, got spent=%s remaining=%s", result.Spent, result.Remaining())
	}
	if _, ok := repo.budgets[result.ID]; !ok {
		t.Fatalf("expected budget persisted")
	}
}

func TestCreateBudgetValidation(t *testing.T) {
	svc := NewService(newFakeBudgetRepo())

	_, err := svc.CreateBudget(context.Background(), CreateBudgetInput{UserID: "user-1", Category: " ", Limit: 100})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for blank category, got %v", err)
	}

	_, err = svc.CreateBudget(context.Background(), CreateBudgetInput{UserID: "user-1", Category: "Food", Limit: 0})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for zero limit, got %v", err)
	}
}

func TestDeleteBudgetScopedToOwner(t *testing.T) {
	repo := newFakeBudgetRepo()
	svc := NewService(repo)
	created, err := svc.CreateBudget(context.Background(), CreateBudgetInput{UserID: "user-1", Category: "Food", Limit: 100})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteBudget(context.Background(), "user-2", created.ID); !errors.Is(err, ErrBudgetNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
	if err := svc.DeleteBudget(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("expected delete to succeed, got %v", err)
	}
	if !errors.Is(ErrBudgetNotFound, apperr.ErrNotFound) {
		t.Fatalf("expected budget not found to be a not-found kind")
	}
}

func TestListBudgetsNeverNil(t *testing.T) {
	svc := NewService(newFakeBudgetRepo())
	items, err := svc.ListBudgets(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %#v", items)
	}
}
