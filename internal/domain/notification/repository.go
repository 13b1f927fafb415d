package notification

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	Append(ctx context.Context, notification *Notification) error
	// List returns newest first.
	List(ctx context.Context, userID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	SetAlert(ctx context.Context, userID string, alert bool) error
	IsAlert(ctx context.Context, userID string) (bool, error)
}
