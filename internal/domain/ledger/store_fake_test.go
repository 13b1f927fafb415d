package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"expensezen/internal/domain/budget"
	"expensezen/internal/domain/goal"
	"expensezen/internal/domain/group"
	"expensezen/internal/domain/money"
	"expensezen/internal/domain/notification"
	"expensezen/internal/domain/user"
	"expensezen/internal/domain/wallet"
	"expensezen/internal/events"
)

type memState struct {
	users         map[string]user.User
	budgets       map[string]budget.Budget
	goals         map[string]goal.Goal
	groups        map[string]group.GroupBudget
	notifications []notification.Notification
}

func newMemState() *memState {
	return &memState{
		users:   make(map[string]user.User),
		budgets: make(map[string]budget.Budget),
		goals:   make(map[string]goal.Goal),
		groups:  make(map[string]group.GroupBudget),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.budgets {
		c.budgets[k] = v
	}
	for k, v := range s.goals {
		c.goals[k] = v
	}
	for k, v := range s.groups {
		v.Members = append([]group.Member(nil), v.Members...)
		c.groups[k] = v
	}
	c.notifications = append([]notification.Notification(nil), s.notifications...)
	return c
}

// fakeStore commits a transaction only when fn succeeds.
type fakeStore struct {
	state      *memState
	walletSave error
	// staleGoals makes ListOpen return goals another evaluation already
	// completed, as seen by a transaction that lost the race.
	staleGoals bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{state: newMemState()}
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(Store) error) error {
	work := s.state.clone()
	if err := fn(&fakeStore{state: work, walletSave: s.walletSave, staleGoals: s.staleGoals}); err != nil {
		return err
	}
	*s.state = *work
	return nil
}

func (s *fakeStore) Budgets() budget.Repository {
	return fakeBudgets{s.state}
}

func (s *fakeStore) Goals() goal.Repository {
	if s.staleGoals {
		return staleGoals{fakeGoals{s.state}}
	}
	return fakeGoals{s.state}
}

func (s *fakeStore) Groups() group.Repository {
	return fakeGroups{s.state}
}

func (s *fakeStore) Wallets() wallet.Repository {
	return fakeWallets{state: s.state, saveErr: s.walletSave}
}

func (s *fakeStore) Notifications() notification.Repository {
	return fakeNotifications{s.state}
}

func (s *fakeStore) Users() user.Repository {
	return fakeUsers{s.state}
}

type fakeBudgets struct{ s *memState }

func (r fakeBudgets) Transaction(ctx context.Context, fn func(budget.Repository) error) error {
	return fn(r)
}

func (r fakeBudgets) List(ctx context.Context, userID string) ([]budget.Budget, error) {
	var items []budget.Budget
	for _, b := range r.s.budgets {
		if b.UserID == userID {
			items = append(items, b)
		}
	}
	return items, nil
}

func (r fakeBudgets) GetByID(ctx context.Context, userID, budgetID string) (*budget.Budget, error) {
	b, ok := r.s.budgets[budgetID]
	if !ok || b.UserID != userID {
		return nil, budget.ErrBudgetNotFound
	}
	return &b, nil
}

func (r fakeBudgets) GetForUpdate(ctx context.Context, userID, budgetID string) (*budget.Budget, error) {
	return r.GetByID(ctx, userID, budgetID)
}

func (r fakeBudgets) Create(ctx context.Context, b *budget.Budget) error {
	r.s.budgets[b.ID] = *b
	return nil
}

func (r fakeBudgets) Update(ctx context.Context, b *budget.Budget) error {
	r.s.budgets[b.ID] = *b
	return nil
}

func (r fakeBudgets) Delete(ctx context.Context, userID, budgetID string) (bool, error) {
	if _, err := r.GetByID(ctx, userID, budgetID); err != nil {
		return false, nil
	}
	delete(r.s.budgets, budgetID)
	return true, nil
}

type fakeGoals struct{ s *memState }

func (r fakeGoals) Transaction(ctx context.Context, fn func(goal.Repository) error) error {
	return fn(r)
}

func (r fakeGoals) List(ctx context.Context, userID string) ([]goal.Goal, error) {
	var items []goal.Goal
	for _, g := range r.s.goals {
		if g.UserID == userID {
			items = append(items, g)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r fakeGoals) ListOpen(ctx context.Context, userID string) ([]goal.Goal, error) {
	all, _ := r.List(ctx, userID)
	var open []goal.Goal
	for _, g := range all {
		if !g.Completed {
			open = append(open, g)
		}
	}
	return open, nil
}

func (r fakeGoals) GetByID(ctx context.Context, userID, goalID string) (*goal.Goal, error) {
	g, ok := r.s.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, goal.ErrGoalNotFound
	}
	return &g, nil
}

func (r fakeGoals) Create(ctx context.Context, g *goal.Goal) error {
	r.s.goals[g.ID] = *g
	return nil
}

func (r fakeGoals) Delete(ctx context.Context, userID, goalID string) (bool, error) {
	if _, err := r.GetByID(ctx, userID, goalID); err != nil {
		return false, nil
	}
	delete(r.s.goals, goalID)
	return true, nil
}

func (r fakeGoals) MarkCompleted(ctx context.Context, userID, goalID string, at time.Time) (bool, error) {
	g, ok := r.s.goals[goalID]
	if !ok || g.UserID != userID || g.Completed {
		return false, nil
	}
	g.Completed = true
	g.CompletedAt = &at
	r.s.goals[goalID] = g
	return true, nil
}

type staleGoals struct{ fakeGoals }

func (r staleGoals) ListOpen(ctx context.Context, userID string) ([]goal.Goal, error) {
	all, _ := r.List(ctx, userID)
	for i := range all {
		all[i].Completed = false
	}
	return all, nil
}

type fakeGroups struct{ s *memState }

func (r fakeGroups) Transaction(ctx context.Context, fn func(group.Repository) error) error {
	return fn(r)
}

func (r fakeGroups) ListByMember(ctx context.Context, userID string) ([]group.GroupBudget, error) {
	var items []group.GroupBudget
	for _, g := range r.s.groups {
		if _, ok := g.Member(userID); ok {
			items = append(items, g)
		}
	}
	return items, nil
}

func (r fakeGroups) GetByID(ctx context.Context, groupID string) (*group.GroupBudget, error) {
	g, ok := r.s.groups[groupID]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	g.Members = append([]group.Member(nil), g.Members...)
	return &g, nil
}

func (r fakeGroups) Create(ctx context.Context, g *group.GroupBudget) error {
	copied := *g
	copied.Members = append([]group.Member(nil), g.Members...)
	r.s.groups[g.ID] = copied
	return nil
}

func (r fakeGroups) Delete(ctx context.Context, groupID string) error {
	delete(r.s.groups, groupID)
	return nil
}

func (r fakeGroups) MarkPaid(ctx context.Context, groupID, userID string, amount money.Money, at time.Time) (bool, error) {
	g, ok := r.s.groups[groupID]
	if !ok {
		return false, nil
	}
	m, ok := g.Member(userID)
	if !ok || m.Paid {
		return false, nil
	}
	m.Paid = true
	m.PaidAmount = amount
	m.PaidAt = &at
	return true, nil
}

type fakeWallets struct {
	state   *memState
	saveErr error
}

func (r fakeWallets) Get(ctx context.Context, userID string) (*wallet.State, error) {
	u, ok := r.state.users[userID]
	if !ok {
		return nil, wallet.ErrWalletNotFound
	}
	return &wallet.State{
		UserID:       u.ID,
		Balance:      u.Balance,
		Savings:      u.Savings,
		MonthlyLimit: u.MonthlyLimit,
		Spendings:    u.Spendings,
	}, nil
}

func (r fakeWallets) GetForUpdate(ctx context.Context, userID string) (*wallet.State, error) {
	return r.Get(ctx, userID)
}

func (r fakeWallets) Save(ctx context.Context, state *wallet.State) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	u, ok := r.state.users[state.UserID]
	if !ok {
		return wallet.ErrWalletNotFound
	}
	u.Balance = state.Balance
	u.Savings = state.Savings
	u.MonthlyLimit = state.MonthlyLimit
	u.Spendings = state.Spendings
	r.state.users[u.ID] = u
	return nil
}

type fakeNotifications struct{ s *memState }

func (r fakeNotifications) Transaction(ctx context.Context, fn func(notification.Repository) error) error {
	return fn(r)
}

func (r fakeNotifications) Append(ctx context.Context, n *notification.Notification) error {
	r.s.notifications = append(r.s.notifications, *n)
	return nil
}

func (r fakeNotifications) List(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	var items []notification.Notification
	for i := len(r.s.notifications) - 1; i >= 0 && len(items) < limit; i-- {
		if r.s.notifications[i].UserID == userID {
			items = append(items, r.s.notifications[i])
		}
	}
	return items, nil
}

func (r fakeNotifications) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	for i := range r.s.notifications {
		if r.s.notifications[i].ID == id && r.s.notifications[i].UserID == userID {
			r.s.notifications[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r fakeNotifications) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var n int64
	for i := range r.s.notifications {
		if r.s.notifications[i].UserID == userID && !r.s.notifications[i].IsRead {
			r.s.notifications[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (r fakeNotifications) SetAlert(ctx context.Context, userID string, alert bool) error {
	u, ok := r.s.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsAlert = alert
	r.s.users[userID] = u
	return nil
}

func (r fakeNotifications) IsAlert(ctx context.Context, userID string) (bool, error) {
	return r.s.users[userID].IsAlert, nil
}

type fakeUsers struct{ s *memState }

func (r fakeUsers) Create(ctx context.Context, u *user.User) error {
	r.s.users[u.ID] = *u
	return nil
}

func (r fakeUsers) GetByID(ctx context.Context, userID string) (*user.User, error) {
	u, ok := r.s.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r fakeUsers) CountByIDs(ctx context.Context, userIDs []string) (int64, error) {
	var n int64
	for _, id := range userIDs {
		if _, ok := r.s.users[id]; ok {
			n++
		}
	}
	return n, nil
}

func (r fakeUsers) UpdateName(ctx context.Context, userID, fullName string) error {
	u := r.s.users[userID]
	u.FullName = fullName
	r.s.users[userID] = u
	return nil
}

func (r fakeUsers) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	u := r.s.users[userID]
	u.PasswordHash = hash
	r.s.users[userID] = u
	return nil
}

func (r fakeUsers) IncrementGoalsComplete(ctx context.Context, userID string, by int64) error {
	u, ok := r.s.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.GoalsComplete += by
	r.s.users[userID] = u
	return nil
}

func (r fakeUsers) SearchByPrefix(ctx context.Context, field, prefix string, limit int) ([]user.Match, error) {
	var out []user.Match
	for _, u := range r.s.users {
		if strings.HasPrefix(u.Email, prefix) {
			out = append(out, user.Match{ID: u.ID, Email: u.Email, FullName: u.FullName})
		}
	}
	return out, nil
}

func (r fakeUsers) TopBySavings(ctx context.Context, limit int) ([]user.User, error) {
	var out []user.User
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Savings > out[j].Savings })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	types := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}
