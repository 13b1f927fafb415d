package insights

import (
	"net/http"

	"expensezen/internal/domain/money"
)

type rankEntryResponse struct {
	Rank          int         `json:"rank"`
	UserID        string      `json:"userId"`
	FullName      string      `json:"fullName"`
	Savings       money.Money `json:"savings"`
	GoalsComplete int64       `json:"goalsComplete"`
}

func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
		return
	}

	entries, err := h.Rank.Top(r.Context(), limit)
	if err != nil {
		writeServiceError(w, h.log, "leaderboard.top", err)
		return
	}

	resp := make([]rankEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, rankEntryResponse{
			Rank:          e.Rank,
			UserID:        e.UserID,
			FullName:      e.FullName,
			Savings:       e.Savings,
			GoalsComplete: e.GoalsComplete,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
