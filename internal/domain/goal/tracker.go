package goal

import (
	"strings"
	"time"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
)

// CompletionWindowDays is how close the target date has to be before a
// funded goal counts as achieved.
const CompletionWindowDays = 7

const maxTitleLength = 80

// Day truncates t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntil counts calendar days from today to target, ignoring the time of
// day on both sides. Yesterday is -1.
func DaysUntil(target, today time.Time) int {
	return int(Day(target).Sub(Day(today)).Hours() / 24)
}

// Evaluate reports whether goal should be marked completed now.
func Evaluate(goal Goal, totalSaved money.Money, today time.Time) bool {
	return EvaluateWithin(goal, totalSaved, today, CompletionWindowDays)
}

func EvaluateWithin(goal Goal, totalSaved money.Money, today time.Time, windowDays int) bool {
	if goal.Completed {
		return false
	}
	return DaysUntil(goal.TargetDate, today) <= windowDays && totalSaved >= goal.Required
}

func validate(input CreateGoalInput, today time.Time) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", apperr.Invalid("title", "title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", apperr.Invalid("title", "title is too long")
	}
	if !input.Required.IsPositive() {
		return "", apperr.Invalid("required", "required amount must be greater than zero")
	}
	if input.TargetDate.IsZero() || !Day(input.TargetDate).After(Day(today)) {
		return "", apperr.Invalid("targetDate", "target date must be in the future")
	}
	return title, nil
}
