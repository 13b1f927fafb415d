package notification

import (
	"fmt"
	"time"

	"expensezen/internal/domain/money"

	"github.com/google/uuid"
)

func New(userID, title, message string, at time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Timestamp: at.UTC(),
	}
}

func Overspent(userID, category string, amountOver money.Money, at time.Time) Notification {
	return New(userID, "Budget exceeded",
		fmt.Sprintf("You went over your %s budget by %s.", category, amountOver), at)
}

func GoalAchieved(userID, title string, at time.Time) Notification {
	return New(userID, "Goal achieved",
		fmt.Sprintf("Congratulations! You reached your goal %q.", title), at)
}

func SharePaid(userID, groupTitle string, amount money.Money, at time.Time) Notification {
	return New(userID, "Group payment",
		fmt.Sprintf("You paid %s for %s.", amount, groupTitle), at)
}
