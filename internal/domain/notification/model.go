package notification

import "time"

type Notification struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;index;not null"`
	Title     string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
	Timestamp time.Time `gorm:"not null;index"`
	IsRead    bool      `gorm:"not null;default:false"`
}

type Feed struct {
	Items   []Notification
	Unread  int
	IsAlert bool
}
