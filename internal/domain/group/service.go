package group

import (
	"context"

	"expensezen/internal/events"

	"github.com/google/uuid"
)

type Service struct {
	repo      Repository
	directory Directory
	events    events.Publisher
}

func NewService(repo Repository, directory Directory, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{repo: repo, directory: directory, events: publisher}
}

func (s *Service) ListGroupBudgets(ctx context.Context, userID string) ([]GroupBudget, error) {
	groups, err := s.repo.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		return []GroupBudget{}, nil
	}
	return groups, nil
}

// GetGroupBudget hides groups the caller is not part of.
func (s *Service) GetGroupBudget(ctx context.Context, userID, groupID string) (*GroupBudget, error) {
	group, err := s.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, ok := group.Member(userID); !ok {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

func (s *Service) CreateGroupBudget(ctx context.Context, input CreateGroupBudgetInput) (*GroupBudget, error) {
	title, err := validate(input)
	if err != nil {
		return nil, err
	}
	memberIDs, err := NormalizeMembers(input.CreatorID, input.MemberIDs)
	if err != nil {
		return nil, err
	}

	known, err := s.directory.CountByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	if known != int64(len(memberIDs)) {
		return nil, ErrUnknownMembers
	}

	group := GroupBudget{
		ID:          uuid.NewString(),
		Title:       title,
		TotalAmount: input.TotalAmount,
		PerHead:     input.PerHead,
		CreatedBy:   input.CreatorID,
		Members:     make([]Member, 0, len(memberIDs)),
	}
	for i, id := range memberIDs {
		group.Members = append(group.Members, Member{GroupBudgetID: group.ID, UserID: id, Position: i})
	}

	if err := s.repo.Create(ctx, &group); err != nil {
		return nil, err
	}

	s.notifyChanged(ctx, &group)
	return &group, nil
}

// DeleteGroupBudget is allowed for the creator only. Shares already paid
// stay paid.
func (s *Service) DeleteGroupBudget(ctx context.Context, userID, groupID string) error {
	var deleted GroupBudget
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		group, err := tx.GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		if group.CreatedBy != userID {
			if _, ok := group.Member(userID); !ok {
				return ErrGroupNotFound
			}
			return ErrNotCreator
		}
		if err := tx.Delete(ctx, groupID); err != nil {
			return err
		}
		deleted = *group
		return nil
	})
	if err != nil {
		return err
	}

	s.notifyChanged(ctx, &deleted)
	return nil
}

// The change is already committed; a failed publish is not an error.
func (s *Service) notifyChanged(ctx context.Context, group *GroupBudget) {
	_ = s.events.Publish(ctx, events.New(events.GroupChanged, map[string]string{"groupId": group.ID}, group.MemberIDs()...))
}
