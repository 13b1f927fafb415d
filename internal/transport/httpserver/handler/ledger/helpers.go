package ledger

import (
	"net/http"
	"time"

	commonhandler "expensezen/internal/transport/httpserver/handler/common"
	"expensezen/internal/transport/httpserver/middleware"
	"expensezen/pkg/logger"
)

func writeError(w http.ResponseWriter, status int, code, message string) {
	commonhandler.WriteError(w, status, code, message)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	commonhandler.WriteJSON(w, status, payload)
}

func writeServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	commonhandler.WriteServiceError(w, log, op, err, args...)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return commonhandler.DecodeJSON(r, dst)
}

func parseDateRequired(value string) (time.Time, error) {
	return commonhandler.ParseDateRequired(value)
}

func requireUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
	}
	return user, ok
}
