package notification

import "context"

const defaultListLimit = 100

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID string) (*Feed, error) {
	items, err := s.repo.List(ctx, userID, defaultListLimit)
	if err != nil {
		return nil, err
	}
	alert, err := s.repo.IsAlert(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed := Feed{Items: items, IsAlert: alert}
	if feed.Items == nil {
		feed.Items = []Notification{}
	}
	for _, n := range feed.Items {
		if !n.IsRead {
			feed.Unread++
		}
	}
	return &feed, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	ok, err := s.repo.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead also clears the user's alert badge.
func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.MarkAllRead(ctx, userID); err != nil {
			return err
		}
		return tx.SetAlert(ctx, userID, false)
	})
}
