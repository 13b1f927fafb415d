package user

import (
	"time"

	"expensezen/internal/domain/money"
)

// User is the per-user document. Wallet buckets live on the same row so
// that a transfer touches a single record.
type User struct {
	ID            string      `gorm:"type:uuid;primaryKey"`
	Email         string      `gorm:"not null;uniqueIndex"`
	FullName      string      `gorm:"not null"`
	PasswordHash  string      `gorm:"not null"`
	Balance       money.Money `gorm:"type:bigint;not null;default:0"`
	Savings       money.Money `gorm:"type:bigint;not null;default:0"`
	MonthlyLimit  money.Money `gorm:"type:bigint;not null;default:0"`
	Spendings     money.Money `gorm:"type:bigint;not null;default:0"`
	GoalsComplete int64       `gorm:"not null;default:0"`
	IsAlert       bool        `gorm:"not null;default:false"`
	CreatedAt     time.Time   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime"`
}

type Profile struct {
	ID            string
	Email         string
	FullName      string
	GoalsComplete int64
	IsAlert       bool
	CreatedAt     time.Time
}

func (u *User) Profile() Profile {
	return Profile{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		GoalsComplete: u.GoalsComplete,
		IsAlert:       u.IsAlert,
		CreatedAt:     u.CreatedAt,
	}
}

const (
	SearchFieldEmail    = "email"
	SearchFieldFullName = "full_name"
)

type Match struct {
	ID       string
	Email    string
	FullName string
}
