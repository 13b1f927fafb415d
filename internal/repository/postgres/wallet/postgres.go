package wallet

import (
	"context"
	"errors"

	"expensezen/internal/domain/apperr"
	domain "expensezen/internal/domain/wallet"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*domain.State, error) {
	return r.get(r.db.WithContext(ctx), userID)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, userID string) (*domain.State, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (r *PostgresRepository) get(db *gorm.DB, userID string) (*domain.State, error) {
	var state domain.State
	if err := db.Where("id = ?", userID).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, apperr.Persistence("get wallet", err)
	}
	return &state, nil
}

// Save writes the four buckets in one statement.
func (r *PostgresRepository) Save(ctx context.Context, state *domain.State) error {
	result := r.db.WithContext(ctx).
		Model(&domain.State{}).
		Where("id = ?", state.UserID).
		Updates(map[string]interface{}{
			"balance":       state.Balance,
			"savings":       state.Savings,
			"monthly_limit": state.MonthlyLimit,
			"spendings":     state.Spendings,
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return apperr.Persistence("save wallet", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}
