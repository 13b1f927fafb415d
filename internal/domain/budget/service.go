package budget

import (
	"context"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListBudgets(ctx context.Context, userID string) ([]Budget, error) {
	budgets, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if budgets == nil {
		return []Budget{}, nil
	}
	return budgets, nil
}

func (s *Service) GetBudget(ctx context.Context, userID, budgetID string) (*Budget, error) {
	return s.repo.GetByID(ctx, userID, budgetID)
}

func (s *Service) CreateBudget(ctx context.Context, input CreateBudgetInput) (*Budget, error) {
	category, err := ValidateCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if err := ValidateLimit(input.Limit); err != nil {
		return nil, err
	}

	budget := Budget{
		ID:       uuid.NewString(),
		UserID:   input.UserID,
		Category: category,
		Limit:    input.Limit,
		Spent:    0,
	}
	if err := s.repo.Create(ctx, &budget); err != nil {
		return nil, err
	}
	return &budget, nil
}

// DeleteBudget removes the budget only; the wallet is left as it is.
func (s *Service) DeleteBudget(ctx context.Context, userID, budgetID string) error {
	deleted, err := s.repo.Delete(ctx, userID, budgetID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBudgetNotFound
	}
	return nil
}
