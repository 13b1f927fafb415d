package group

import (
	"context"
	"time"

	"expensezen/internal/domain/money"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// ListByMember returns the groups userID belongs to, members in
	// position order.
	ListByMember(ctx context.Context, userID string) ([]GroupBudget, error)
	GetByID(ctx context.Context, groupID string) (*GroupBudget, error)
	Create(ctx context.Context, group *GroupBudget) error
	Delete(ctx context.Context, groupID string) error
	// MarkPaid flips an unpaid member to paid and reports whether this call
	// did it.
	MarkPaid(ctx context.Context, groupID, userID string, amount money.Money, at time.Time) (bool, error)
}

// Directory resolves member ids to known users.
type Directory interface {
	CountByIDs(ctx context.Context, userIDs []string) (int64, error)
}
