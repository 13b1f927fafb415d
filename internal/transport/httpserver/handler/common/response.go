package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"expensezen/internal/auth"
	"expensezen/internal/domain/apperr"
	"expensezen/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	return decodeJSON(r, dst)
}

// WriteServiceError maps an error kind to its status code. Caller mistakes
// are logged as business errors, everything else as internal errors.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	var invalid *apperr.ValidationError
	var funds *apperr.InsufficientFundsError

	switch {
	case errors.As(err, &invalid):
		log.BusinessError(op+": validation failed", err, args...)
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Error: errorBody{
			Code:    "validation_failed",
			Message: invalid.Message,
			Field:   invalid.Field,
		}})
	case errors.As(err, &funds):
		log.BusinessError(op+": insufficient funds", err, args...)
		writeError(w, http.StatusUnprocessableEntity, "insufficient_funds", funds.Reason())
	case errors.Is(err, auth.ErrInvalidCredentials):
		log.BusinessError(op+": invalid credentials", err, args...)
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
		log.BusinessError(op+": invalid token", err, args...)
		writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		log.BusinessError(op+": not found", err, args...)
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, apperr.ErrForbidden):
		log.BusinessError(op+": forbidden", err, args...)
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		log.BusinessError(op+": conflict", err, args...)
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperr.ErrValidation):
		log.BusinessError(op+": validation failed", err, args...)
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, apperr.ErrPersistence):
		log.InternalError(op+": persistence failed", err, args...)
		writeError(w, http.StatusServiceUnavailable, "persistence_failure", "storage unavailable, try again")
	default:
		log.InternalError(op+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
