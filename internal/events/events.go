// Package events carries domain events from committed ledger operations to
// whoever listens: the realtime hub in-process and the AMQP exchange across
// instances.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BudgetOverspend     Type = "budget.overspend"
	GoalCompleted       Type = "goal.completed"
	GroupChanged        Type = "group.changed"
	WalletChanged       Type = "wallet.changed"
	NotificationCreated Type = "notification.created"
	PasswordReset       Type = "auth.password_reset"
)

type Event struct {
	ID         string          `json:"id"`
	Type       Type            `json:"type"`
	UserIDs    []string        `json:"userIds"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// New builds an event addressed to userIDs. A payload that cannot be
// encoded is dropped; listeners reload state on the type alone.
func New(eventType Type, payload any, userIDs ...string) Event {
	event := Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserIDs:    userIDs,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if raw, err := json.Marshal(payload); err == nil {
			event.Payload = raw
		}
	}
	return event
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}

// Fanout publishes to every publisher and returns the first error.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var first error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil && first == nil {
			first = err
		}
	}
	return first
}
