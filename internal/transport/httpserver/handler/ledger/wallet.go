package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"expensezen/internal/domain/apperr"
	"expensezen/internal/domain/money"
	walletdomain "expensezen/internal/domain/wallet"
)

type transferRequest struct {
	Direction string `json:"direction"`
	// Raw user input, string or number; parsing and rounding happen in the
	// transfer itself.
	Amount json.RawMessage `json:"amount"`
}

type amountRequest struct {
	Amount money.Money `json:"amount"`
}

type walletResponse struct {
	Balance      money.Money `json:"balance"`
	Savings      money.Money `json:"savings"`
	MonthlyLimit money.Money `json:"monthlyLimit"`
	Spendings    money.Money `json:"spendings"`
	Guest        bool        `json:"guest,omitempty"`
}

type transferResponse struct {
	Phase  string          `json:"phase"`
	Reason string          `json:"reason,omitempty"`
	Wallet *walletResponse `json:"wallet,omitempty"`
}

// GetWallet answers with an empty guest wallet when the user has no row.
func (h *Handlers) GetWallet(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	state, err := h.Ledger.GetWallet(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, walletdomain.ErrWalletNotFound) {
			writeJSON(w, http.StatusOK, walletResponse{Guest: true})
			return
		}
		writeServiceError(w, h.log, "wallet.get", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(state))
}

func (h *Handlers) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.Ledger.Transfer(r.Context(), user.ID, req.Direction, rawAmount(req.Amount))
	if err != nil {
		status, ok := transferFailureStatus(err)
		if result == nil || !ok {
			writeServiceError(w, h.log, "wallet.transfer", err, "user_id", user.ID, "direction", req.Direction)
			return
		}
		if status == http.StatusServiceUnavailable {
			h.log.InternalError("wallet.transfer: failed", err, "user_id", user.ID, "direction", req.Direction)
		} else {
			h.log.BusinessError("wallet.transfer: rejected", err, "user_id", user.ID, "direction", req.Direction)
		}
		writeJSON(w, status, transferResponse{Phase: string(result.Phase), Reason: result.Reason})
		return
	}

	h.log.Info("wallet.transfer: succeeded", "user_id", user.ID, "direction", req.Direction)
	wallet := toWalletResponse(result.State)
	writeJSON(w, http.StatusOK, transferResponse{Phase: string(result.Phase), Wallet: &wallet})
}

func (h *Handlers) TopUp(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	state, err := h.Ledger.TopUp(r.Context(), user.ID, req.Amount)
	if err != nil {
		writeServiceError(w, h.log, "wallet.top_up", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(state))
}

func (h *Handlers) SetMonthlyLimit(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	state, err := h.Ledger.SetMonthlyLimit(r.Context(), user.ID, req.Amount)
	if err != nil {
		writeServiceError(w, h.log, "wallet.monthly_limit", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toWalletResponse(state))
}

// transferFailureStatus reports the status for failures whose reason is
// shown to the user as is.
func transferFailureStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, apperr.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, apperr.ErrPersistence):
		return http.StatusServiceUnavailable, true
	default:
		return 0, false
	}
}

func rawAmount(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}

func toWalletResponse(state *walletdomain.State) walletResponse {
	return walletResponse{
		Balance:      state.Balance,
		Savings:      state.Savings,
		MonthlyLimit: state.MonthlyLimit,
		Spendings:    state.Spendings,
	}
}
