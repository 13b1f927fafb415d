package group

import (
	"strings"

	"expensezen/internal/domain/apperr"
)

const maxTitleLength = 80

// NormalizeMembers keeps the submitted order, drops blanks and repeats, and
// appends the creator when not already listed.
func NormalizeMembers(creatorID string, memberIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(memberIDs)+1)
	result := make([]string, 0, len(memberIDs)+1)
	for _, id := range memberIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	if len(result) == 0 {
		return nil, apperr.Invalid("members", "select at least one member")
	}
	if _, ok := seen[creatorID]; !ok {
		result = append(result, creatorID)
	}
	return result, nil
}

func validate(input CreateGroupBudgetInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return "", apperr.Invalid("title", "title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", apperr.Invalid("title", "title is too long")
	}
	if !input.TotalAmount.IsPositive() {
		return "", apperr.Invalid("totalAmount", "total amount must be greater than zero")
	}
	if !input.PerHead.IsPositive() {
		return "", apperr.Invalid("perHead", "per head amount must be greater than zero")
	}
	return title, nil
}
