package groups

import (
	"errors"
	"io"
	"net/http"
	"time"

	groupdomain "expensezen/internal/domain/group"
	"expensezen/internal/domain/money"

	"github.com/go-chi/chi/v5"
)

type createGroupRequest struct {
	Title       string      `json:"title"`
	TotalAmount money.Money `json:"totalAmount"`
	PerHead     money.Money `json:"perHead"`
	Members     []string    `json:"members"`
}

type paymentRequest struct {
	Amount *money.Money `json:"amount"`
}

type memberResponse struct {
	UserID     string      `json:"userId"`
	Paid       bool        `json:"paid"`
	PaidAmount money.Money `json:"paidAmount"`
	PaidAt     *time.Time  `json:"paidAt,omitempty"`
}

type groupResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	TotalAmount money.Money      `json:"totalAmount"`
	PerHead     money.Money      `json:"perHead"`
	Collected   money.Money      `json:"collected"`
	CreatedBy   string           `json:"createdBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	Members     []memberResponse `json:"members"`
}

type matchResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func (h *Handlers) ListGroupBudgets(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	groups, err := h.Groups.ListGroupBudgets(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.log, "groups.list", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponses(groups))
}

func (h *Handlers) GetGroupBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	group, err := h.Groups.GetGroupBudget(r.Context(), user.ID, groupID)
	if err != nil {
		writeServiceError(w, h.log, "groups.get", err, "user_id", user.ID, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(*group))
}

func (h *Handlers) CreateGroupBudget(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	created, err := h.Groups.CreateGroupBudget(r.Context(), groupdomain.CreateGroupBudgetInput{
		CreatorID:   user.ID,
		Title:       req.Title,
		TotalAmount: req.TotalAmount,
		PerHead:     req.PerHead,
		MemberIDs:   req.Members,
	})
	if err != nil {
		writeServiceError(w, h.log, "groups.create", err, "user_id", user.ID)
		return
	}

	h.log.Info("groups.create: group budget created", "user_id", user.ID, "group_id", created.ID, "members", len(created.Members))
	writeJSON(w, http.StatusCreated, toGroupResponse(*created))
}

func (h *Handlers) PayShare(w http.ResponseWriter, r *http.Request) {
	// The body is optional; without an amount the per-head share is paid.
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	updated, err := h.Ledger.PayShare(r.Context(), groupID, user.ID, req.Amount)
	if err != nil {
		writeServiceError(w, h.log, "groups.pay", err, "user_id", user.ID, "group_id", groupID)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(*updated))
}

func (h *Handlers) DeleteGroupBudget(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID := chi.URLParam(r, "id")

	if err := h.Groups.DeleteGroupBudget(r.Context(), user.ID, groupID); err != nil {
		writeServiceError(w, h.log, "groups.delete", err, "user_id", user.ID, "group_id", groupID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchMembers backs the member picker: prefix match on email, or on the
// full name with field=fullName.
func (h *Handlers) SearchMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
		return
	}

	matches, err := h.Users.SearchMembers(r.Context(), query.Get("field"), query.Get("q"), limit)
	if err != nil {
		writeServiceError(w, h.log, "users.search", err, "user_id", user.ID)
		return
	}

	resp := make([]matchResponse, 0, len(matches))
	for _, m := range matches {
		resp = append(resp, matchResponse{ID: m.ID, Email: m.Email, FullName: m.FullName})
	}
	writeJSON(w, http.StatusOK, resp)
}

func toGroupResponses(groups []groupdomain.GroupBudget) []groupResponse {
	resp := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp = append(resp, toGroupResponse(g))
	}
	return resp
}

func toGroupResponse(g groupdomain.GroupBudget) groupResponse {
	members := make([]memberResponse, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, memberResponse{
			UserID:     m.UserID,
			Paid:       m.Paid,
			PaidAmount: m.PaidAmount,
			PaidAt:     m.PaidAt,
		})
	}
	return groupResponse{
		ID:          g.ID,
		Title:       g.Title,
		TotalAmount: g.TotalAmount,
		PerHead:     g.PerHead,
		Collected:   g.Collected(),
		CreatedBy:   g.CreatedBy,
		CreatedAt:   g.CreatedAt,
		Members:     members,
	}
}
