package goal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	goals, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		return []Goal{}, nil
	}
	return goals, nil
}

func (s *Service) CreateGoal(ctx context.Context, input CreateGoalInput) (*Goal, error) {
	title, err := validate(input, s.now())
	if err != nil {
		return nil, err
	}

	goal := Goal{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		Title:      title,
		Required:   input.Required,
		TargetDate: Day(input.TargetDate),
	}
	if err := s.repo.Create(ctx, &goal); err != nil {
		return nil, err
	}
	return &goal, nil
}

// DeleteGoal leaves the user's completed-goal counter as it is.
func (s *Service) DeleteGoal(ctx context.Context, userID, goalID string) error {
	deleted, err := s.repo.Delete(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGoalNotFound
	}
	return nil
}
