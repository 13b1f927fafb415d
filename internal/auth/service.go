package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
	"expensezen/internal/domain/user"
	"expensezen/internal/events"

	"github.com/google/uuid"
)

type UserStorage interface {
	Create(ctx context.Context, user *user.User) error
	GetByID(ctx context.Context, userID string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
}

type Session struct {
	UserID string
	Token  string
}

type Service struct {
	users               UserStorage
	tokens              *JWTManager
	events              events.Publisher
	defaultMonthlyLimit money.Money
}

func NewService(users UserStorage, tokens *JWTManager, publisher events.Publisher, defaultMonthlyLimit money.Money) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		users:               users,
		tokens:              tokens,
		events:              publisher,
		defaultMonthlyLimit: defaultMonthlyLimit,
	}
}

// CreateAccount registers a user with an empty wallet and the default
// monthly limit.
func (s *Service) CreateAccount(ctx context.Context, email, fullName, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, apperr.Invalid("fullName", "name is required")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := user.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		MonthlyLimit: s.defaultMonthlyLimit,
	}
	if err := s.users.Create(ctx, &account); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateAccess(account.ID, account.Email)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: account.ID, Token: token}, nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	account, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPassword(account.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccess(account.ID, account.Email)
	if err != nil {
		return nil, err
	}
	return &Session{UserID: account.ID, Token: token}, nil
}

// VerifyAccessToken resolves a bearer token to its claims.
func (s *Service) VerifyAccessToken(token string) (*Claims, error) {
	return s.tokens.Validate(token, PurposeAccess)
}

// SendPasswordReset issues a reset token and hands it to the mailer through
// the event bus. Unknown emails succeed silently.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	account, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.tokens.GenerateReset(account.ID, account.Email)
	if err != nil {
		return err
	}
	return s.events.Publish(ctx, events.New(events.PasswordReset, map[string]string{
		"email": account.Email,
		"token": token,
	}, account.ID))
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.Validate(token, PurposeReset)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, claims.UserID, newPassword)
}

func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string) error {
	return s.setPassword(ctx, userID, newPassword)
}

func (s *Service) setPassword(ctx context.Context, userID, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
