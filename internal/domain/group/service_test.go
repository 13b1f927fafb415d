package group

import (
	"context"
	"errors"
	"testing"
	"time"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
	"expensezen/internal/events"
)

type fakeGroupRepo struct {
	groups map[string]*GroupBudget
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[string]*GroupBudget)}
}

func (r *fakeGroupRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeGroupRepo) ListByMember(ctx context.Context, userID string) ([]GroupBudget, error) {
	var items []GroupBudget
	for _, g := range r.groups {
		if _, ok := g.Member(userID); ok {
			items = append(items, *g)
		}
	}
	return items, nil
}

func (r *fakeGroupRepo) GetByID(ctx context.Context, groupID string) (*GroupBudget, error) {
	g, ok := r.groups[groupID]
	if !ok {
		return nil, ErrGroupNotFound
	}
	copied := *g
	copied.Members = append([]Member(nil), g.Members...)
	return &copied, nil
}

func (r *fakeGroupRepo) Create(ctx context.Context, group *GroupBudget) error {
	copied := *group
	copied.Members = append([]Member(nil), group.Members...)
	r.groups[group.ID] = &copied
	return nil
}

func (r *fakeGroupRepo) Delete(ctx context.Context, groupID string) error {
	delete(r.groups, groupID)
	return nil
}

func (r *fakeGroupRepo) MarkPaid(ctx context.Context, groupID, userID string, amount money.Money, at time.Time) (bool, error) {
	g, ok := r.groups[groupID]
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

type fakeDirectory struct {
	known map[string]bool
}

func (d fakeDirectory) CountByIDs(ctx context.Context, userIDs []string) (int64, error) {
	var n int64
	for _, id := range userIDs {
		if d.known[id] {
			n++
		}
	}
	return n, nil
}

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService() (*Service, *fakeGroupRepo, *recordingPublisher) {
	repo := newFakeGroupRepo()
	publisher := &recordingPublisher{}
	directory := fakeDirectory{known: map[string]bool{"alice": true, "bob": true, "carol": true}}
	return NewService(repo, directory, publisher), repo, publisher
}

func TestCreateGroupBudgetAppendsCreator(t *testing.T) {
	svc, repo, publisher := newTestService()

	group, err := svc.CreateGroupBudget(context.Background(), CreateGroupBudgetInput{
		CreatorID:   "alice",
		Title:       "Trip",
		TotalAmount: money.FromMajor(1500),
		PerHead:     money.FromMajor(500),
		MemberIDs:   []string{"carol", "bob", "carol"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ids := group.MemberIDs()
	want := []string{"carol", "bob", "alice"}
	if len(ids) != len(want) {
		t.Fatalf("expected members %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] || group.Members[i].Position != i || group.Members[i].Paid {
			t.Fatalf("unexpected member %d: %+v", i, group.Members[i])
		}
	}
	if _, ok := repo.groups[group.ID]; !ok {
		t.Fatalf("expected group persisted")
	}
	if len(publisher.events) != 1 || publisher.events[0].Type != events.GroupChanged {
		t.Fatalf("expected one group.changed event, got %+v", publisher.events)
	}
}

func TestCreateGroupBudgetCreatorAlreadyListed(t *testing.T) {
	svc, _, _ := newTestService()
	group, err := svc.CreateGroupBudget(context.Background(), CreateGroupBudgetInput{
		CreatorID: "alice", Title: "Dinner", TotalAmount: 100, PerHead: 50, MemberIDs: []string{"alice", "bob"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(group.Members) != 2 || group.Members[0].UserID != "alice" {
		t.Fatalf("expected submitted order kept, got %v", group.MemberIDs())
	}
}

func TestCreateGroupBudgetValidation(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []CreateGroupBudgetInput{
		{CreatorID: "alice", Title: " ", TotalAmount: 100, PerHead: 50, MemberIDs: []string{"bob"}},
		{CreatorID: "alice", Title: "Trip", TotalAmount: 0, PerHead: 50, MemberIDs: []string{"bob"}},
		{CreatorID: "alice", Title: "Trip", TotalAmount: 100, PerHead: 0, MemberIDs: []string{"bob"}},
		{CreatorID: "alice", Title: "Trip", TotalAmount: 100, PerHead: 50},
	}
	for _, input := range cases {
		if _, err := svc.CreateGroupBudget(context.Background(), input); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestCreateGroupBudgetUnknownMember(t *testing.T) {
	svc, _, publisher := newTestService()
	_, err := svc.CreateGroupBudget(context.Background(), CreateGroupBudgetInput{
		CreatorID: "alice", Title: "Trip", TotalAmount: 100, PerHead: 50, MemberIDs: []string{"mallory"},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(publisher.events) != 0 {
		t.Fatalf("expected no events, got %d", len(publisher.events))
	}
}

func TestDeleteGroupBudgetOnlyCreator(t *testing.T) {
	svc, repo, _ := newTestService()
	group, err := svc.CreateGroupBudget(context.Background(), CreateGroupBudgetInput{
		CreatorID: "alice", Title: "Trip", TotalAmount: 100, PerHead: 50, MemberIDs: []string{"bob"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteGroupBudget(context.Background(), "bob", group.ID); !errors.Is(err, ErrNotCreator) {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}
	if !errors.Is(ErrNotCreator, apperr.ErrForbidden) {
		t.Fatalf("expected ErrNotCreator to be forbidden")
	}
	if err := svc.DeleteGroupBudget(context.Background(), "carol", group.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected outsiders to see not found, got %v", err)
	}
	if err := svc.DeleteGroupBudget(context.Background(), "alice", group.ID); err != nil {
		t.Fatalf("expected creator delete to succeed, got %v", err)
	}
	if len(repo.groups) != 0 {
		t.Fatalf("expected group removed")
	}
}

func TestGetGroupBudgetHiddenFromOutsiders(t *testing.T) {
	svc, _, _ := newTestService()
	group, err := svc.CreateGroupBudget(context.Background(), CreateGroupBudgetInput{
		CreatorID: "alice", Title: "Trip", TotalAmount: 100, PerHead: 50, MemberIDs: []string{"bob"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.GetGroupBudget(context.Background(), "carol", group.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	got, err := svc.GetGroupBudget(context.Background(), "bob", group.ID)
	if err != nil || got.ID != group.ID {
		t.Fatalf("expected member access, got %v %v", got, err)
	}
}
