package goal

import (
	"context"
	"time"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, userID string) ([]Goal, error)
	ListOpen(ctx context.Context, userID string) ([]Goal, error)
	GetByID(ctx context.Context, userID, goalID string) (*Goal, error)
	Create(ctx context.Context, goal *Goal) error
	Delete(ctx context.Context, userID, goalID string) (bool, error)
	// MarkCompleted flips an open goal to completed and reports whether this
	// call did it.
	MarkCompleted(ctx context.Context, userID, goalID string, at time.Time) (bool, error)
}
