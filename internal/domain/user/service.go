package user

import (
	"context"
	"strings"

	"expensezen/internal/domain/apperr"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
	maxNameLength      = 80
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *Service) UpdateName(ctx context.Context, userID, fullName string) (*Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperr.Invalid("fullName", "name is required")
	}
	if len([]rune(fullName)) > maxNameLength {
		return nil, apperr.Invalid("fullName", "name is too long")
	}

	if err := s.repo.UpdateName(ctx, userID, fullName); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

// SearchMembers returns users whose identifier starts with query. The match
// is case-sensitive and ordered lexicographically; an empty query matches
// nobody.
func (s *Service) SearchMembers(ctx context.Context, field, query string, limit int) ([]Match, error) {
	column, err := searchColumn(field)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return []Match{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	matches, err := s.repo.SearchByPrefix(ctx, column, query, limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		return []Match{}, nil
	}
	return matches, nil
}

func searchColumn(field string) (string, error) {
	switch strings.TrimSpace(field) {
	case "", "email":
		return SearchFieldEmail, nil
	case "fullName", "full_name", "name":
		return SearchFieldFullName, nil
	default:
		return "", ErrInvalidSearchField
	}
}
