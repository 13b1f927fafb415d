package ledger

import (
	"context"
	"time"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/budget"
	"expensezen/internal/domain/goal"
	"expensezen/internal/domain/group"
	"expensezen/internal/domain/money"
	"expensezen/internal/domain/notification"
	"expensezen/internal/domain/wallet"
	"expensezen/internal/events"
)

type Coordinator struct {
	store          Store
	events         events.Publisher
	metrics        Recorder
	goalWindowDays int
	now            func() time.Time
}

func NewCoordinator(store Store, publisher events.Publisher, recorder Recorder, goalWindowDays int) *Coordinator {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if goalWindowDays <= 0 {
		goalWindowDays = goal.CompletionWindowDays
	}
	return &Coordinator{
		store:          store,
		events:         publisher,
		metrics:        recorder,
		goalWindowDays: goalWindowDays,
		now:            time.Now,
	}
}

type SpendResult struct {
	Budget    budget.Budget
	Overspend *budget.OverspendEvent
}

// RecordSpend adds delta to a budget. Crossing the limit lowers the monthly
// allowance by the overspent part and raises an alert.
func (c *Coordinator) RecordSpend(ctx context.Context, userID, budgetID string, delta money.Money) (*SpendResult, error) {
	if delta.IsZero() {
		return nil, apperr.Invalid("amount", "Enter a valid amount.")
	}

	var result SpendResult
	var created *notification.Notification
	err := c.store.Transaction(ctx, func(tx Store) error {
		b, err := tx.Budgets().GetForUpdate(ctx, userID, budgetID)
		if err != nil {
			return err
		}
		event, err := b.RecordSpend(delta)
		if err != nil {
			return err
		}
		if err := tx.Budgets().Update(ctx, b); err != nil {
			return err
		}
		result = SpendResult{Budget: *b, Overspend: event}
		if event == nil {
			return nil
		}

		state, err := tx.Wallets().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		state.ConsumeMonthlyLimit(event.AmountOver)
		if err := tx.Wallets().Save(ctx, state); err != nil {
			return err
		}

		n := notification.Overspent(userID, event.Category, event.AmountOver, c.now())
		if err := c.notify(ctx, tx, &n); err != nil {
			return err
		}
		created = &n
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Overspend != nil {
		c.metrics.Overspend(result.Overspend.Category, result.Overspend.AmountOver)
		c.publish(ctx, events.New(events.BudgetOverspend, map[string]string{
			"budgetId":   result.Overspend.BudgetID,
			"category":   result.Overspend.Category,
			"amountOver": result.Overspend.AmountOver.String(),
		}, userID))
		c.publish(ctx, events.New(events.WalletChanged, nil, userID))
	}
	c.publishNotification(ctx, created)
	return &result, nil
}

// EditBudget replaces category, limit and spent. Growth of spent is taken
// from the monthly allowance; a decrease gives nothing back.
func (c *Coordinator) EditBudget(ctx context.Context, input budget.EditBudgetInput) (*budget.Budget, error) {
	var result budget.Budget
	var increase money.Money
	err := c.store.Transaction(ctx, func(tx Store) error {
		b, err := tx.Budgets().GetForUpdate(ctx, input.UserID, input.BudgetID)
		if err != nil {
			return err
		}
		increase, err = b.Edit(input.Category, input.Limit, input.Spent)
		if err != nil {
			return err
		}
		if err := tx.Budgets().Update(ctx, b); err != nil {
			return err
		}
		result = *b

		if !increase.IsPositive() {
			return nil
		}
		state, err := tx.Wallets().GetForUpdate(ctx, input.UserID)
		if err != nil {
			return err
		}
		state.ConsumeMonthlyLimit(increase)
		return tx.Wallets().Save(ctx, state)
	})
	if err != nil {
		return nil, err
	}

	if increase.IsPositive() {
		c.publish(ctx, events.New(events.WalletChanged, nil, input.UserID))
	}
	return &result, nil
}

// EvaluateGoals completes every open goal that is funded by the user's
// savings and due within the completion window. Each goal bumps the
// completed counter exactly once, even under concurrent evaluation.
func (c *Coordinator) EvaluateGoals(ctx context.Context, userID string) ([]goal.Completion, error) {
	now := c.now()
	completions := []goal.Completion{}
	var created []notification.Notification
	err := c.store.Transaction(ctx, func(tx Store) error {
		state, err := tx.Wallets().Get(ctx, userID)
		if err != nil {
			return err
		}
		open, err := tx.Goals().ListOpen(ctx, userID)
		if err != nil {
			return err
		}

		for _, g := range open {
			if !goal.EvaluateWithin(g, state.Savings, now, c.goalWindowDays) {
				continue
			}
			flipped, err := tx.Goals().MarkCompleted(ctx, userID, g.ID, now)
			if err != nil {
				return err
			}
			if !flipped {
				continue
			}
			if err := tx.Users().IncrementGoalsComplete(ctx, userID, 1); err != nil {
				return err
			}
			n := notification.GoalAchieved(userID, g.Title, now)
			if err := c.notify(ctx, tx, &n); err != nil {
				return err
			}
			completions = append(completions, goal.Completion{GoalID: g.ID, Title: g.Title, Required: g.Required})
			created = append(created, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range completions {
		c.metrics.GoalCompleted()
		c.publish(ctx, events.New(events.GoalCompleted, map[string]string{"goalId": completions[i].GoalID}, userID))
		c.publishNotification(ctx, &created[i])
	}
	return completions, nil
}

// PayShare settles payerID's share of a group budget from their wallet.
// amount defaults to the per-head share. The member flag and the wallet
// debit commit together or not at all.
func (c *Coordinator) PayShare(ctx context.Context, groupID, payerID string, amount *money.Money) (*group.GroupBudget, error) {
	now := c.now()
	var result group.GroupBudget
	var paid money.Money
	var created notification.Notification
	err := c.store.Transaction(ctx, func(tx Store) error {
		g, err := tx.Groups().GetByID(ctx, groupID)
		if err != nil {
			return err
		}
		member, ok := g.Member(payerID)
		if !ok {
			return group.ErrMemberNotFound
		}
		if member.Paid {
			return group.ErrAlreadyPaid
		}

		paid = g.PerHead
		if amount != nil {
			paid = *amount
		}

		state, err := tx.Wallets().GetForUpdate(ctx, payerID)
		if err != nil {
			return err
		}
		if err := state.Debit(paid); err != nil {
			return err
		}

		flipped, err := tx.Groups().MarkPaid(ctx, groupID, payerID, paid, now)
		if err != nil {
			return err
		}
		if !flipped {
			return group.ErrAlreadyPaid
		}
		if err := tx.Wallets().Save(ctx, state); err != nil {
			return err
		}

		created = notification.SharePaid(payerID, g.Title, paid, now)
		if err := c.notify(ctx, tx, &created); err != nil {
			return err
		}

		member.Paid = true
		member.PaidAmount = paid
		member.PaidAt = &now
		result = *g
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.metrics.SharePaid(paid)
	c.publish(ctx, events.New(events.GroupChanged, map[string]string{"groupId": groupID}, result.MemberIDs()...))
	c.publish(ctx, events.New(events.WalletChanged, nil, payerID))
	c.publishNotification(ctx, &created)
	return &result, nil
}

type TransferResult struct {
	Phase  wallet.Phase
	Reason string
	State  *wallet.State
}

// Transfer moves money between the wallet and savings buckets. The result
// always describes where the transfer ended, also when err is set.
func (c *Coordinator) Transfer(ctx context.Context, userID, direction, input string) (*TransferResult, error) {
	t := wallet.NewTransfer()
	if err := t.Submit(direction, input); err != nil {
		return nil, err
	}

	var next wallet.State
	err := c.store.Transaction(ctx, func(tx Store) error {
		state, err := tx.Wallets().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := t.Validate(*state); err != nil {
			return err
		}
		next, err = t.Apply(*state)
		if err != nil {
			return err
		}
		return tx.Wallets().Save(ctx, &next)
	})
	if t.Phase() == wallet.PhaseTransferring {
		_ = t.Complete(err)
	}

	result := &TransferResult{Phase: t.Phase(), Reason: t.Reason()}
	label := direction
	if _, perr := wallet.ParseDirection(direction); perr != nil {
		label = "invalid"
	}
	c.metrics.Transfer(label, string(t.Phase()))
	if err != nil {
		if result.Reason == "" {
			result.Reason = "Something went wrong. Try again."
		}
		return result, err
	}

	result.State = &next
	c.publish(ctx, events.New(events.WalletChanged, nil, userID))
	return result, nil
}

func (c *Coordinator) TopUp(ctx context.Context, userID string, amount money.Money) (*wallet.State, error) {
	return c.updateWallet(ctx, userID, func(state *wallet.State) error {
		return state.TopUp(amount)
	})
}

func (c *Coordinator) SetMonthlyLimit(ctx context.Context, userID string, amount money.Money) (*wallet.State, error) {
	return c.updateWallet(ctx, userID, func(state *wallet.State) error {
		return state.SetMonthlyLimit(amount)
	})
}

func (c *Coordinator) GetWallet(ctx context.Context, userID string) (*wallet.State, error) {
	return c.store.Wallets().Get(ctx, userID)
}

func (c *Coordinator) updateWallet(ctx context.Context, userID string, apply func(*wallet.State) error) (*wallet.State, error) {
	var result wallet.State
	err := c.store.Transaction(ctx, func(tx Store) error {
		state, err := tx.Wallets().GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := apply(state); err != nil {
			return err
		}
		if err := tx.Wallets().Save(ctx, state); err != nil {
			return err
		}
		result = *state
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.publish(ctx, events.New(events.WalletChanged, nil, userID))
	return &result, nil
}

func (c *Coordinator) notify(ctx context.Context, tx Store, n *notification.Notification) error {
	if err := tx.Notifications().Append(ctx, n); err != nil {
		return err
	}
	return tx.Notifications().SetAlert(ctx, n.UserID, true)
}

func (c *Coordinator) publishNotification(ctx context.Context, n *notification.Notification) {
	if n == nil {
		return
	}
	c.publish(ctx, events.New(events.NotificationCreated, map[string]string{
		"id":      n.ID,
		"title":   n.Title,
		"message": n.Message,
	}, n.UserID))
}

// Committed state is authoritative; delivery is best effort.
func (c *Coordinator) publish(ctx context.Context, event events.Event) {
	_ = c.events.Publish(ctx, event)
}
