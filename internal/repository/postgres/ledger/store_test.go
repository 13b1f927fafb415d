package ledger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"expensezen/internal/db"
	"expensezen/internal/domain/apperr"
	budgetdomain "expensezen/internal/domain/budget"
	goaldomain "expensezen/internal/domain/goal"
	groupdomain "expensezen/internal/domain/group"
	idempotencydomain "expensezen/internal/domain/idempotency"
	ledgerdomain "expensezen/internal/domain/ledger"
	"expensezen/internal/domain/money"
	notificationdomain "expensezen/internal/domain/notification"
	userdomain "expensezen/internal/domain/user"
	walletdomain "expensezen/internal/domain/wallet"
	idempotencyrepo "expensezen/internal/repository/postgres/idempotency"
	"expensezen/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type StoreSuite struct {
	suite.Suite
	db    *gorm.DB
	store *Store
	ctx   context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	gormDB, err := db.NewSQLite(":memory:", logger.NewNop())
	s.Require().NoError(err)
	s.db = gormDB
	s.store = NewStore(gormDB)
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())
}

func (s *StoreSuite) createUser(email, fullName string, balance, savings money.Money) *userdomain.User {
	u := &userdomain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: "hash",
		Balance:      balance,
		Savings:      savings,
		MonthlyLimit: money.FromMajor(3000),
	}
	s.Require().NoError(s.store.Users().Create(s.ctx, u))
	return u
}

func (s *StoreSuite) TestUserEmailIsUnique() {
	s.createUser("ana@example.com", "Ana", 0, 0)

	err := s.store.Users().Create(s.ctx, &userdomain.User{
		ID: uuid.NewString(), Email: "ana@example.com", FullName: "Other", PasswordHash: "x",
	})
	s.ErrorIs(err, userdomain.ErrEmailTaken)
	s.ErrorIs(err, apperr.ErrConflict)
}

func (s *StoreSuite) TestSearchByPrefixIsCaseSensitiveAndOrdered() {
	s.createUser("bob@example.com", "Bob", 0, 0)
	s.createUser("ben@example.com", "Ben", 0, 0)
	s.createUser("Bea@example.com", "Bea", 0, 0)
	s.createUser("b%@example.com", "Percent", 0, 0)

	matches, err := s.store.Users().SearchByPrefix(s.ctx, userdomain.SearchFieldEmail, "b", 10)
	s.Require().NoError(err)
	s.Require().Len(matches, 3)
	s.Equal("b%@example.com", matches[0].Email)
	s.Equal("ben@example.com", matches[1].Email)
	s.Equal("bob@example.com", matches[2].Email)

	matches, err = s.store.Users().SearchByPrefix(s.ctx, userdomain.SearchFieldEmail, "b%", 10)
	s.Require().NoError(err)
	s.Require().Len(matches, 1, "wildcards are literal")

	matches, err = s.store.Users().SearchByPrefix(s.ctx, userdomain.SearchFieldFullName, "Be", 10)
	s.Require().NoError(err)
	s.Require().Len(matches, 2)
	s.Equal("Bea", matches[0].FullName)

	_, err = s.store.Users().SearchByPrefix(s.ctx, "password_hash", "h", 10)
	s.ErrorIs(err, userdomain.ErrInvalidSearchField)
}

func (s *StoreSuite) TestTopBySavings() {
	s.createUser("a@x.io", "Zed", 0, money.FromMajor(100))
	s.createUser("b@x.io", "Amy", 0, money.FromMajor(100))
	s.createUser("c@x.io", "Max", 0, money.FromMajor(500))

	users, err := s.store.Users().TopBySavings(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(users, 2)
	s.Equal("Max", users[0].FullName)
	s.Equal("Amy", users[1].FullName)
}

func (s *StoreSuite) TestBudgetLifecycle() {
	u := s.createUser("a@x.io", "Ana", 0, 0)
	repo := s.store.Budgets()

	b := &budgetdomain.Budget{ID: uuid.NewString(), UserID: u.ID, Category: "Food", Limit: money.FromMajor(300)}
	s.Require().NoError(repo.Create(s.ctx, b))

	b.Spent = money.FromMajor(350)
	s.Require().NoError(repo.Update(s.ctx, b))

	got, err := repo.GetForUpdate(s.ctx, u.ID, b.ID)
	s.Require().NoError(err)
	s.Equal(money.FromMajor(350), got.Spent)
	s.Equal(money.FromMajor(-50), got.Remaining())

	_, err = repo.GetByID(s.ctx, uuid.NewString(), b.ID)
	s.ErrorIs(err, budgetdomain.ErrBudgetNotFound, "budgets are owner scoped")

	deleted, err := repo.Delete(s.ctx, u.ID, b.ID)
	s.Require().NoError(err)
	s.True(deleted)
	deleted, err = repo.Delete(s.ctx, u.ID, b.ID)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *StoreSuite) TestGoalCompletesOnce() {
	u := s.createUser("a@x.io", "Ana", 0, 0)
	g := &goaldomain.Goal{
		ID: uuid.NewString(), UserID: u.ID, Title: "Bike",
		Required: money.FromMajor(1200), TargetDate: goaldomain.Day(time.Now().AddDate(0, 0, 5)),
	}
	s.Require().NoError(s.store.Goals().Create(s.ctx, g))

	flipped, err := s.store.Goals().MarkCompleted(s.ctx, u.ID, g.ID, time.Now())
	s.Require().NoError(err)
	s.True(flipped)

	flipped, err = s.store.Goals().MarkCompleted(s.ctx, u.ID, g.ID, time.Now())
	s.Require().NoError(err)
	s.False(flipped)

	open, err := s.store.Goals().ListOpen(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(open)
}

func (s *StoreSuite) TestGroupMembersKeepOrder() {
	creator := s.createUser("c@x.io", "Cy", 0, 0)
	first := s.createUser("f@x.io", "Fe", 0, 0)
	outsider := s.createUser("o@x.io", "Oz", 0, 0)

	g := &groupdomain.GroupBudget{
		ID: uuid.NewString(), Title: "Trip", TotalAmount: money.FromMajor(1000), PerHead: money.FromMajor(500),
		CreatedBy: creator.ID,
		Members: []groupdomain.Member{
			{UserID: first.ID, Position: 0},
			{UserID: creator.ID, Position: 1},
		},
	}
	s.Require().NoError(s.store.Groups().Create(s.ctx, g))

	got, err := s.store.Groups().GetByID(s.ctx, g.ID)
	s.Require().NoError(err)
	s.Equal([]string{first.ID, creator.ID}, got.MemberIDs())

	listed, err := s.store.Groups().ListByMember(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Len(listed, 1)
	listed, err = s.store.Groups().ListByMember(s.ctx, outsider.ID)
	s.Require().NoError(err)
	s.Empty(listed)

	paid, err := s.store.Groups().MarkPaid(s.ctx, g.ID, first.ID, money.FromMajor(500), time.Now())
	s.Require().NoError(err)
	s.True(paid)
	paid, err = s.store.Groups().MarkPaid(s.ctx, g.ID, first.ID, money.FromMajor(500), time.Now())
	s.Require().NoError(err)
	s.False(paid)

	s.Require().NoError(s.store.Groups().Delete(s.ctx, g.ID))
	_, err = s.store.Groups().GetByID(s.ctx, g.ID)
	s.ErrorIs(err, groupdomain.ErrGroupNotFound)

	var members int64
	s.Require().NoError(s.db.Model(&groupdomain.Member{}).Count(&members).Error)
	s.Zero(members)
}

func (s *StoreSuite) TestWalletSave() {
	u := s.createUser("a@x.io", "Ana", money.FromMajor(100), money.FromMajor(50))

	state, err := s.store.Wallets().GetForUpdate(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(money.FromMajor(150), state.Total())

	state.Balance = money.FromMajor(60)
	state.Savings = money.FromMajor(90)
	s.Require().NoError(s.store.Wallets().Save(s.ctx, state))

	reloaded, err := s.store.Wallets().Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(money.FromMajor(90), reloaded.Savings)

	_, err = s.store.Wallets().Get(s.ctx, uuid.NewString())
	s.ErrorIs(err, walletdomain.ErrWalletNotFound)
}

func (s *StoreSuite) TestNotificationsNewestFirst() {
	u := s.createUser("a@x.io", "Ana", 0, 0)
	repo := s.store.Notifications()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		n := notificationdomain.New(u.ID, fmt.Sprintf("n%d", i), "m", base.Add(time.Duration(i)*time.Minute))
		s.Require().NoError(repo.Append(s.ctx, &n))
	}
	s.Require().NoError(repo.SetAlert(s.ctx, u.ID, true))

	items, err := repo.List(s.ctx, u.ID, 2)
	s.Require().NoError(err)
	s.Require().Len(items, 2)
	s.Equal("n2", items[0].Title)

	ok, err := repo.MarkRead(s.ctx, u.ID, items[0].ID)
	s.Require().NoError(err)
	s.True(ok)

	count, err := repo.MarkAllRead(s.ctx, u.ID)
	s.Require().NoError(err)
	s.EqualValues(2, count)

	alert, err := repo.IsAlert(s.ctx, u.ID)
	s.Require().NoError(err)
	s.True(alert)
}

func (s *StoreSuite) TestIdempotencyKeyReservedOnce() {
	repo := idempotencyrepo.NewPostgres(s.db)
	userID := uuid.NewString()
	first := &idempotencydomain.Record{ID: uuid.NewString(), UserID: userID, Key: "k1", RequestHash: "h", Status: idempotencydomain.StateProcessing}

	created, existing, err := repo.Begin(s.ctx, first)
	s.Require().NoError(err)
	s.True(created)
	s.Nil(existing)

	s.Require().NoError(repo.Complete(s.ctx, first.ID, 201, []byte(`{"ok":true}`)))

	second := &idempotencydomain.Record{ID: uuid.NewString(), UserID: userID, Key: "k1", RequestHash: "h", Status: idempotencydomain.StateProcessing}
	created, existing, err = repo.Begin(s.ctx, second)
	s.Require().NoError(err)
	s.False(created)
	s.Require().NotNil(existing)
	s.Equal(idempotencydomain.StateCompleted, existing.Status)
	s.Equal(201, existing.ResponseStatus)
	s.JSONEq(`{"ok":true}`, string(existing.ResponseBody))

	s.Require().NoError(repo.Release(s.ctx, first.ID))
	created, _, err = repo.Begin(s.ctx, second)
	s.Require().NoError(err)
	s.True(created)
}

func (s *StoreSuite) TestTransactionRollsBackEveryRepository() {
	u := s.createUser("a@x.io", "Ana", money.FromMajor(100), 0)
	boom := errors.New("boom")

	err := s.store.Transaction(s.ctx, func(tx ledgerdomain.Store) error {
		state, err := tx.Wallets().GetForUpdate(s.ctx, u.ID)
		if err != nil {
			return err
		}
		state.Balance = 0
		if err := tx.Wallets().Save(s.ctx, state); err != nil {
			return err
		}
		n := notificationdomain.New(u.ID, "t", "m", time.Now())
		if err := tx.Notifications().Append(s.ctx, &n); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	state, err := s.store.Wallets().Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(money.FromMajor(100), state.Balance)

	items, err := s.store.Notifications().List(s.ctx, u.ID, 0)
	s.Require().NoError(err)
	s.Empty(items)
}

func (s *StoreSuite) TestCoordinatorOverspendScenario() {
	u := s.createUser("a@x.io", "Ana", money.FromMajor(1000), 0)
	b := &budgetdomain.Budget{ID: uuid.NewString(), UserID: u.ID, Category: "Food", Limit: money.FromMajor(300)}
	s.Require().NoError(s.store.Budgets().Create(s.ctx, b))

	coordinator := ledgerdomain.NewCoordinator(s.store, nil, nil, 0)
	result, err := coordinator.RecordSpend(s.ctx, u.ID, b.ID, money.FromMajor(350))
	s.Require().NoError(err)
	s.Require().NotNil(result.Overspend)
	s.Equal(money.FromMajor(50), result.Overspend.AmountOver)

	state, err := s.store.Wallets().Get(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(money.FromMajor(2950), state.MonthlyLimit)

	alert, err := s.store.Notifications().IsAlert(s.ctx, u.ID)
	s.Require().NoError(err)
	s.True(alert)
}

func (s *StoreSuite) TestCoordinatorPayShareScenario() {
	creator := s.createUser("c@x.io", "Cy", money.FromMajor(100), 0)
	payer := s.createUser("p@x.io", "Pia", money.FromMajor(600), 0)
	g := &groupdomain.GroupBudget{
		ID: uuid.NewString(), Title: "Trip", TotalAmount: money.FromMajor(1000), PerHead: money.FromMajor(500),
		CreatedBy: creator.ID,
		Members: []groupdomain.Member{
			{UserID: payer.ID, Position: 0},
			{UserID: creator.ID, Position: 1},
		},
	}
	s.Require().NoError(s.store.Groups().Create(s.ctx, g))

	coordinator := ledgerdomain.NewCoordinator(s.store, nil, nil, 0)
	updated, err := coordinator.PayShare(s.ctx, g.ID, payer.ID, nil)
	s.Require().NoError(err)
	member, ok := updated.Member(payer.ID)
	s.Require().True(ok)
	s.True(member.Paid)

	state, err := s.store.Wallets().Get(s.ctx, payer.ID)
	s.Require().NoError(err)
	s.Equal(money.FromMajor(100), state.Balance)

	_, err = coordinator.PayShare(s.ctx, g.ID, creator.ID, nil)
	s.ErrorIs(err, apperr.ErrInsufficientFunds)

	reloaded, err := s.store.Groups().GetByID(s.ctx, g.ID)
	s.Require().NoError(err)
	creatorMember, _ := reloaded.Member(creator.ID)
	s.False(creatorMember.Paid, "a failed debit leaves the flag untouched")
}
