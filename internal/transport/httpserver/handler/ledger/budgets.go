package ledger

import (
	"net/http"
	"time"

	budgetdomain "expensezen/internal/domain/budget"
	"expensezen/internal/domain/money"

	"github.com/go-chi/chi/v5"
)

type createBudgetRequest struct {
	Category string      `json:"category"`
	Limit    money.Money `json:"limit"`
}

type editBudgetRequest struct {
	Category string      `json:"category"`
	Limit    money.Money `json:"limit"`
	Spent    money.Money `json:"spent"`
}

type spendRequest struct {
	Amount money.Money `json:"amount"`
}

type budgetResponse struct {
	ID        string      `json:"id"`
	Category  string      `json:"category"`
	Limit     money.Money `json:"limit"`
	Spent     money.Money `json:"spent"`
	Remaining money.Money `json:"remaining"`
	Usage     string      `json:"usage"`
	Overspent bool        `json:"overspent"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type overspendResponse struct {
	BudgetID   string      `json:"budgetId"`
	Category   string      `json:"category"`
	AmountOver money.Money `json:"amountOver"`
}

type spendResponse struct {
	Budget    budgetResponse     `json:"budget"`
	Overspend *overspendResponse `json:"overspend,omitempty"`
}

func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	budgets, err := h.Budgets.ListBudgets(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.log, "budgets.list", err, "user_id", user.ID)
		return
	}

	resp := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, toBudgetResponse(b))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	created, err := h.Budgets.CreateBudget(r.Context(), budgetdomain.CreateBudgetInput{
		UserID:   user.ID,
		Category: req.Category,
		Limit:    req.Limit,
	})
	if err != nil {
		writeServiceError(w, h.log, "budgets.create", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, toBudgetResponse(*created))
}

func (h *Handlers) EditBudget(w http.ResponseWriter, r *http.Request) {
	var req editBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	budgetID := chi.URLParam(r, "id")

	updated, err := h.Ledger.EditBudget(r.Context(), budgetdomain.EditBudgetInput{
		UserID:   user.ID,
		BudgetID: budgetID,
		Category: req.Category,
		Limit:    req.Limit,
		Spent:    req.Spent,
	})
	if err != nil {
		writeServiceError(w, h.log, "budgets.edit", err, "user_id", user.ID, "budget_id", budgetID)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(*updated))
}

func (h *Handlers) RecordSpend(w http.ResponseWriter, r *http.Request) {
	var req spendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	budgetID := chi.URLParam(r, "id")

	result, err := h.Ledger.RecordSpend(r.Context(), user.ID, budgetID, req.Amount)
	if err != nil {
		writeServiceError(w, h.log, "budgets.spend", err, "user_id", user.ID, "budget_id", budgetID)
		return
	}

	resp := spendResponse{Budget: toBudgetResponse(result.Budget)}
	if event := result.Overspend; event != nil {
		h.log.Info("budgets.spend: budget overspent", "user_id", user.ID, "budget_id", budgetID, "amount_over", event.AmountOver.String())
		resp.Overspend = &overspendResponse{BudgetID: event.BudgetID, Category: event.Category, AmountOver: event.AmountOver}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	budgetID := chi.URLParam(r, "id")

	if err := h.Budgets.DeleteBudget(r.Context(), user.ID, budgetID); err != nil {
		writeServiceError(w, h.log, "budgets.delete", err, "user_id", user.ID, "budget_id", budgetID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toBudgetResponse(b budgetdomain.Budget) budgetResponse {
	return budgetResponse{
		ID:        b.ID,
		Category:  b.Category,
		Limit:     b.Limit,
		Spent:     b.Spent,
		Remaining: b.Remaining(),
		Usage:     string(b.Usage()),
		Overspent: b.Overspent(),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
