package rank

import (
	"context"
	"time"

	"expensezen/internal/domain/user"
	"expensezen/internal/events"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Source interface {
	TopBySavings(ctx context.Context, limit int) ([]user.User, error)
}

type Service struct {
	source Source
	cache  Cache
	ttl    time.Duration
}

func NewService(source Source, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{source: source, cache: cache, ttl: ttl}
}

// Top returns users by savings, highest first. Equal savings share a rank
// and the next rank skips accordingly (1, 2, 2, 4).
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if cached, ok := s.cache.Get(limit); ok {
		return cached, nil
	}

	users, err := s.source.TopBySavings(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := Rank(users)
	s.cache.Set(limit, entries, s.ttl)
	return entries, nil
}

// Invalidate drops cached boards after balances change.
func (s *Service) Invalidate() {
	s.cache.Clear()
}

// Publish lets the service sit on the event bus and invalidate itself when
// savings or goal counters move.
func (s *Service) Publish(_ context.Context, event events.Event) error {
	switch event.Type {
	case events.WalletChanged, events.GoalCompleted:
		s.Invalidate()
	}
	return nil
}

// Rank assigns competition ranks to users already ordered by savings.
func Rank(users []user.User) []Entry {
	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		position := i + 1
		if i > 0 && u.Savings == users[i-1].Savings {
			position = entries[i-1].Rank
		}
		entries = append(entries, Entry{
			Rank:          position,
			UserID:        u.ID,
			FullName:      u.FullName,
			Savings:       u.Savings,
			GoalsComplete: u.GoalsComplete,
		})
	}
	return entries
}
