package ledger

import (
	"net/http"
	"time"

	"expensezen/internal/domain/apperr"
	goaldomain "expensezen/internal/domain/goal"
	"expensezen/internal/domain/money"
	commonhandler "expensezen/internal/transport/httpserver/handler/common"

	"github.com/go-chi/chi/v5"
)

type createGoalRequest struct {
	Title      string      `json:"title"`
	Required   money.Money `json:"required"`
	TargetDate string      `json:"targetDate"`
}

type goalResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Required    money.Money `json:"required"`
	TargetDate  string      `json:"targetDate"`
	DaysLeft    int         `json:"daysLeft"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type completionResponse struct {
	GoalID   string      `json:"goalId"`
	Title    string      `json:"title"`
	Required money.Money `json:"required"`
}

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	goals, err := h.Goals.ListGoals(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.log, "goals.list", err, "user_id", user.ID)
		return
	}

	today := time.Now()
	resp := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, toGoalResponse(g, today))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	target, err := parseDateRequired(req.TargetDate)
	if err != nil {
		writeServiceError(w, h.log, "goals.create", apperr.Invalid("targetDate", "use YYYY-MM-DD"), "user_id", user.ID)
		return
	}

	created, err := h.Goals.CreateGoal(r.Context(), goaldomain.CreateGoalInput{
		UserID:     user.ID,
		Title:      req.Title,
		Required:   req.Required,
		TargetDate: target,
	})
	if err != nil {
		writeServiceError(w, h.log, "goals.create", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalResponse(*created, time.Now()))
}

// EvaluateGoals completes the goals the user's savings now cover.
func (h *Handlers) EvaluateGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	completions, err := h.Ledger.EvaluateGoals(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.log, "goals.evaluate", err, "user_id", user.ID)
		return
	}

	resp := make([]completionResponse, 0, len(completions))
	for _, c := range completions {
		resp = append(resp, completionResponse{GoalID: c.GoalID, Title: c.Title, Required: c.Required})
	}
	if len(resp) > 0 {
		h.log.Info("goals.evaluate: goals completed", "user_id", user.ID, "count", len(resp))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"completed": resp})
}

func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	goalID := chi.URLParam(r, "id")

	if err := h.Goals.DeleteGoal(r.Context(), user.ID, goalID); err != nil {
		writeServiceError(w, h.log, "goals.delete", err, "user_id", user.ID, "goal_id", goalID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toGoalResponse(g goaldomain.Goal, today time.Time) goalResponse {
	return goalResponse{
		ID:          g.ID,
		Title:       g.Title,
		Required:    g.Required,
		TargetDate:  g.TargetDate.Format(commonhandler.DateLayout),
		DaysLeft:    goaldomain.DaysUntil(g.TargetDate, today),
		Completed:   g.Completed,
		CompletedAt: g.CompletedAt,
		CreatedAt:   g.CreatedAt,
	}
}
