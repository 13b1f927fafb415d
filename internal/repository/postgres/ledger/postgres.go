// Package ledger binds every repository the ledger coordinator needs to one
// gorm handle, so they share a transaction.
package ledger

import (
	"context"

	budgetdomain "expensezen/internal/domain/budget"
	goaldomain "expensezen/internal/domain/goal"
	groupdomain "expensezen/internal/domain/group"
	ledgerdomain "expensezen/internal/domain/ledger"
	notificationdomain "expensezen/internal/domain/notification"
	userdomain "expensezen/internal/domain/user"
	walletdomain "expensezen/internal/domain/wallet"
	budgetrepo "expensezen/internal/repository/postgres/budget"
	goalrepo "expensezen/internal/repository/postgres/goal"
	grouprepo "expensezen/internal/repository/postgres/group"
	notificationrepo "expensezen/internal/repository/postgres/notification"
	userrepo "expensezen/internal/repository/postgres/user"
	walletrepo "expensezen/internal/repository/postgres/wallet"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Transaction(ctx context.Context, fn func(ledgerdomain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Budgets() budgetdomain.Repository {
	return budgetrepo.NewPostgres(s.db)
}

func (s *Store) Goals() goaldomain.Repository {
	return goalrepo.NewPostgres(s.db)
}

func (s *Store) Groups() groupdomain.Repository {
	return grouprepo.NewPostgres(s.db)
}

func (s *Store) Wallets() walletdomain.Repository {
	return walletrepo.NewPostgres(s.db)
}

func (s *Store) Notifications() notificationdomain.Repository {
	return notificationrepo.NewPostgres(s.db)
}

func (s *Store) Users() userdomain.Repository {
	return userrepo.NewPostgres(s.db)
}
