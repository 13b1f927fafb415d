package common

import (
	"net/http"

	"expensezen/internal/auth"
	userdomain "expensezen/internal/domain/user"
	"expensezen/pkg/logger"
)

type Handlers struct {
	Auth  *auth.Service
	Users *userdomain.Service
	log   logger.Logger
}

func New(authService *auth.Service, users *userdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Auth:  authService,
		Users: users,
		log:   log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
