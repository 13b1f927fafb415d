package insights

import (
	"net/http"

	"expensezen/internal/domain/money"
)

type categorySpendResponse struct {
	Category string      `json:"category"`
	Spent    money.Money `json:"spent"`
	Share    float64     `json:"share"`
}

type overviewResponse struct {
	Balance       money.Money             `json:"balance"`
	Savings       money.Money             `json:"savings"`
	MonthlyLimit  money.Money             `json:"monthlyLimit"`
	Spendings     money.Money             `json:"spendings"`
	TotalExpenses money.Money             `json:"totalExpenses"`
	TopCategories []categorySpendResponse `json:"topCategories"`
}

func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	overview, err := h.Reports.Overview(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.log, "reports.overview", err, "user_id", user.ID)
		return
	}

	resp := overviewResponse{
		Balance:       overview.Balance,
		Savings:       overview.Savings,
		MonthlyLimit:  overview.MonthlyLimit,
		Spendings:     overview.Spendings,
		TotalExpenses: overview.TotalExpenses,
		TopCategories: make([]categorySpendResponse, 0, len(overview.TopCategories)),
	}
	for _, c := range overview.TopCategories {
		resp.TopCategories = append(resp.TopCategories, categorySpendResponse{Category: c.Category, Spent: c.Spent, Share: c.Share})
	}
	writeJSON(w, http.StatusOK, resp)
}
