package budget

import (
	"context"
	"errors"

	"expensezen/internal/domain/apperr"
	domain "expensezen/internal/domain/budget"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Order("id asc").
		Find(&budgets).Error
	if err != nil {
		return nil, apperr.Persistence("list budgets", err)
	}
	return budgets, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	return r.get(r.db.WithContext(ctx), userID, budgetID)
}

// GetForUpdate row-locks the budget on drivers that support it.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID, budgetID string) (*domain.Budget, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID, budgetID)
}

func (r *PostgresRepository) get(db *gorm.DB, userID, budgetID string) (*domain.Budget, error) {
	var budget domain.Budget
	if err := db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, apperr.Persistence("get budget", err)
	}
	return &budget, nil
}

func (r *PostgresRepository) Create(ctx context.Context, budget *domain.Budget) error {
	return apperr.Persistence("create budget", r.db.WithContext(ctx).Create(budget).Error)
}

func (r *PostgresRepository) Update(ctx context.Context, budget *domain.Budget) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Budget{}).
		Where("id = ? AND user_id = ?", budget.ID, budget.UserID).
		Updates(map[string]interface{}{
			"category":     budget.Category,
			"limit_amount": budget.Limit,
			"spent":        budget.Spent,
		})
	if result.Error != nil {
		return apperr.Persistence("update budget", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, budgetID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", budgetID, userID).
		Delete(&domain.Budget{})
	if result.Error != nil {
		return false, apperr.Persistence("delete budget", result.Error)
	}
	return result.RowsAffected > 0, nil
}
