package wallet

import "context"

type Repository interface {
	Get(ctx context.Context, userID string) (*State, error)
	GetForUpdate(ctx context.Context, userID string) (*State, error)
	Save(ctx context.Context, state *State) error
}
