package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
	"expensezen/internal/domain/user"
	"expensezen/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	byID map[string]*user.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: make(map[string]*user.User)}
}

func (f *fakeUsers) Create(ctx context.Context, u *user.User) error {
	copied := *u
	f.byID[u.ID] = &copied
	return nil
}

func (f *fakeUsers) GetByID(ctx context.Context, userID string) (*user.User, error) {
	u, ok := f.byID[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUsers) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	u, ok := f.byID[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return nil
}

func newTestService() (*Service, *fakeUsers, *capturePublisher) {
	users := newFakeUsers()
	publisher := &capturePublisher{}
	tokens := NewJWTManager("test-secret", time.Hour, 15*time.Minute)
	return NewService(users, tokens, publisher, money.FromMajor(3000)), users, publisher
}

func TestCreateAccountDefaults(t *testing.T) {
	svc, users, _ := newTestService()

	session, err := svc.CreateAccount(context.Background(), " Ana@Example.com ", "Ana", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	stored := users.byID[session.UserID]
	require.NotNil(t, stored)
	assert.Equal(t, "ana@example.com", stored.Email)
	assert.Equal(t, money.FromMajor(3000), stored.MonthlyLimit)
	assert.Zero(t, stored.Balance)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	claims, err := svc.VerifyAccessToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, claims.UserID)
}

func TestCreateAccountRejects(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateAccount(context.Background(), "ana@example.com", "Ana", "secret1")
	require.NoError(t, err)

	_, err = svc.CreateAccount(context.Background(), "ana@example.com", "Ana 2", "secret2")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.CreateAccount(context.Background(), "bob@example.com", "Bob", "12345")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.CreateAccount(context.Background(), "not-an-email", "Bob", "123456")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newTestService()
	created, err := svc.CreateAccount(context.Background(), "ana@example.com", "Ana", "secret1")
	require.NoError(t, err)

	session, err := svc.Authenticate(context.Background(), "ANA@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, session.UserID)

	_, err = svc.Authenticate(context.Background(), "ana@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, publisher := newTestService()
	_, err := svc.CreateAccount(context.Background(), "ana@example.com", "Ana", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.SendPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, publisher.events, "unknown emails are silent")

	require.NoError(t, svc.SendPasswordReset(context.Background(), "ana@example.com"))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, events.PasswordReset, publisher.events[0].Type)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(publisher.events[0].Payload, &payload))
	resetToken := payload["token"]

	_, err = svc.VerifyAccessToken(resetToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "reset tokens are not access tokens")

	require.NoError(t, svc.ResetPassword(context.Background(), resetToken, "newsecret"))
	_, err = svc.Authenticate(context.Background(), "ana@example.com", "newsecret")
	assert.NoError(t, err)
}

func TestChangePasswordValidates(t *testing.T) {
	svc, _, _ := newTestService()
	session, err := svc.CreateAccount(context.Background(), "ana@example.com", "Ana", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(context.Background(), session.UserID, "123"), ErrWeakPassword)
	require.NoError(t, svc.ChangePassword(context.Background(), session.UserID, "another1"))
	_, err = svc.Authenticate(context.Background(), "ana@example.com", "another1")
	assert.NoError(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Minute, time.Minute)
	token, err := manager.GenerateAccess("u1", "u1@example.com")
	require.NoError(t, err)

	manager.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = manager.Validate(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewJWTManager("other-secret", time.Minute, time.Minute)
	_, err = other.Validate(token, PurposeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
