package idempotency

import "context"

type Repository interface {
	// Begin stores record unless the user already used its key. It returns
	// whether the record was created and otherwise the existing one.
	Begin(ctx context.Context, record *Record) (bool, *Record, error)
	Complete(ctx context.Context, id string, status int, body []byte) error
	Release(ctx context.Context, id string) error
}
