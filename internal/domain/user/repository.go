package user

import "context"

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	CountByIDs(ctx context.Context, userIDs []string) (int64, error)
	UpdateName(ctx context.Context, userID, fullName string) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	IncrementGoalsComplete(ctx context.Context, userID string, by int64) error
	SearchByPrefix(ctx context.Context, field, prefix string, limit int) ([]Match, error)
	TopBySavings(ctx context.Context, limit int) ([]User, error)
}
