package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Purpose string

const (
	PurposeAccess Purpose = "access"
	PurposeReset  Purpose = "password_reset"
)

type Claims struct {
	UserID  string  `json:"user_id"`
	Email   string  `json:"email"`
	Purpose Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

// JWTManager signs HS256 tokens. Reset tokens carry their own purpose so
// they cannot be used as access tokens.
type JWTManager struct {
	secretKey []byte
	accessTTL time.Duration
	resetTTL  time.Duration
	now       func() time.Time
}

func NewJWTManager(secretKey string, accessTTL, resetTTL time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
		now:       time.Now,
	}
}

func (m *JWTManager) GenerateAccess(userID, email string) (string, error) {
	return m.generate(userID, email, PurposeAccess, m.accessTTL)
}

func (m *JWTManager) GenerateReset(userID, email string) (string, error) {
	return m.generate(userID, email, PurposeReset, m.resetTTL)
}

func (m *JWTManager) generate(userID, email string, purpose Purpose, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		UserID:  userID,
		Email:   email,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate parses token and checks that it was issued for purpose.
func (m *JWTManager) Validate(token string, purpose Purpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secretKey, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
