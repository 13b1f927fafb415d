package insights

import (
	"errors"
	"net/http"
	"time"

	userdomain "expensezen/internal/domain/user"

	"github.com/go-chi/chi/v5"
)

type notificationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
}

type feedResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
	IsAlert       bool                   `json:"isAlert"`
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	feed, err := h.Notifications.List(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			writeJSON(w, http.StatusOK, feedResponse{Notifications: []notificationResponse{}})
			return
		}
		writeServiceError(w, h.log, "notifications.list", err, "user_id", user.ID)
		return
	}

	resp := feedResponse{
		Notifications: make([]notificationResponse, 0, len(feed.Items)),
		Unread:        feed.Unread,
		IsAlert:       feed.IsAlert,
	}
	for _, n := range feed.Items {
		resp.Notifications = append(resp.Notifications, notificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Timestamp: n.Timestamp,
			IsRead:    n.IsRead,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	notificationID := chi.URLParam(r, "id")

	if err := h.Notifications.MarkRead(r.Context(), user.ID, notificationID); err != nil {
		writeServiceError(w, h.log, "notifications.read", err, "user_id", user.ID, "notification_id", notificationID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.Notifications.MarkAllRead(r.Context(), user.ID); err != nil {
		writeServiceError(w, h.log, "notifications.read_all", err, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
