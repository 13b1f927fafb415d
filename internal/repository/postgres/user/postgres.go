package user

import (
	"context"
	"errors"

	"expensezen/internal/domain/apperr"
	domain "expensezen/internal/domain/user"
	"expensezen/internal/repository/postgres/dberr"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if dberr.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return apperr.Persistence("create user", err)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperr.Persistence("get user", err)
	}
	return &user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperr.Persistence("get user by email", err)
	}
	return &user, nil
}

func (r *PostgresRepository) CountByIDs(ctx context.Context, userIDs []string) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id IN ?", userIDs).Count(&count).Error
	return count, apperr.Persistence("count users", err)
}

func (r *PostgresRepository) UpdateName(ctx context.Context, userID, fullName string) error {
	return r.updateColumn(ctx, userID, "full_name", fullName)
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	return r.updateColumn(ctx, userID, "password_hash", hash)
}

func (r *PostgresRepository) IncrementGoalsComplete(ctx context.Context, userID string, by int64) error {
	return r.updateColumn(ctx, userID, "goals_complete", gorm.Expr("goals_complete + ?", by))
}

func (r *PostgresRepository) updateColumn(ctx context.Context, userID, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Update(column, value)
	if result.Error != nil {
		return apperr.Persistence("update user "+column, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SearchByPrefix matches with SUBSTR rather than LIKE so the comparison is
// case-sensitive on every driver and wildcards in prefix are literal.
func (r *PostgresRepository) SearchByPrefix(ctx context.Context, field, prefix string, limit int) ([]domain.Match, error) {
	var column string
	switch field {
	case domain.SearchFieldEmail, domain.SearchFieldFullName:
		column = field
	default:
		return nil, domain.ErrInvalidSearchField
	}

	var matches []domain.Match
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Select("id, email, full_name").
		Where("SUBSTR("+column+", 1, ?) = ?", len([]rune(prefix)), prefix).
		Order(column + " asc").
		Order("id asc").
		Limit(limit).
		Scan(&matches).Error
	if err != nil {
		return nil, apperr.Persistence("search users", err)
	}
	return matches, nil
}

func (r *PostgresRepository) TopBySavings(ctx context.Context, limit int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Order("savings desc").
		Order("full_name asc").
		Order("id asc").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, apperr.Persistence("top users by savings", err)
	}
	return users, nil
}
