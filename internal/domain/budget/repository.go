package budget

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, userID string) ([]Budget, error)
	GetByID(ctx context.Context, userID, budgetID string) (*Budget, error)
	GetForUpdate(ctx context.Context, userID, budgetID string) (*Budget, error)
	Create(ctx context.Context, budget *Budget) error
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, userID, budgetID string) (bool, error)
}
