package common

import (
	"errors"
	"net/http"
	"time"

	userdomain "expensezen/internal/domain/user"
	"expensezen/internal/transport/httpserver/middleware"
)

type signupRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type passwordResetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type updateMeRequest struct {
	FullName string `json:"fullName"`
}

type sessionResponse struct {
	UID   string `json:"uid"`
	Token string `json:"token"`
}

type profileResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	GoalsComplete int64     `json:"goalsComplete"`
	IsAlert       bool      `json:"isAlert"`
	CreatedAt     time.Time `json:"createdAt"`
	Guest         bool      `json:"guest,omitempty"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	session, err := h.Auth.CreateAccount(r.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		WriteServiceError(w, h.log, "auth.signup", err)
		return
	}

	h.log.Info("auth.signup: account created", "user_id", session.UserID)
	writeJSON(w, http.StatusCreated, sessionResponse{UID: session.UserID, Token: session.Token})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	session, err := h.Auth.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, h.log, "auth.login", err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{UID: session.UserID, Token: session.Token})
}

func (h *Handlers) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Auth.SendPasswordReset(r.Context(), req.Email); err != nil {
		WriteServiceError(w, h.log, "auth.password_reset", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handlers) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirmRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Auth.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		WriteServiceError(w, h.log, "auth.password_reset_confirm", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AuthMe returns the caller's profile. A token whose user row is gone
// yields a guest profile rather than an error.
func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	profile, err := h.Users.GetProfile(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeJSON(w, http.StatusOK, profileResponse{ID: user.ID, Email: user.Email, Guest: true})
			return
		}
		WriteServiceError(w, h.log, "auth.me", err, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	profile, err := h.Users.UpdateName(r.Context(), user.ID, req.FullName)
	if err != nil {
		WriteServiceError(w, h.log, "users.update_me", err, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	if err := h.Auth.ChangePassword(r.Context(), user.ID, req.Password); err != nil {
		WriteServiceError(w, h.log, "auth.change_password", err, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toProfileResponse(profile *userdomain.Profile) profileResponse {
	return profileResponse{
		ID:            profile.ID,
		Email:         profile.Email,
		FullName:      profile.FullName,
		GoalsComplete: profile.GoalsComplete,
		IsAlert:       profile.IsAlert,
		CreatedAt:     profile.CreatedAt,
	}
}
