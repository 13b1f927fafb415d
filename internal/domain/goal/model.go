package goal

import (
	"time"

	"expensezen/internal/domain/money"
)

type Goal struct {
	ID          string      `gorm:"type:uuid;primaryKey"`
	UserID      string      `gorm:"type:uuid;index;not null"`
	Title       string      `gorm:"not null"`
	Required    money.Money `gorm:"type:bigint;not null"`
	TargetDate  time.Time   `gorm:"type:date;not null"`
	Completed   bool        `gorm:"not null;default:false"`
	CompletedAt *time.Time  `gorm:"column:completed_at"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
}

type CreateGoalInput struct {
	UserID     string
	Title      string
	Required   money.Money
	TargetDate time.Time
}

type Completion struct {
	GoalID   string
	Title    string
	Required money.Money
}
