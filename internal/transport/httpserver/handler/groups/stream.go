package groups

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"expensezen/internal/events"
)

// Stream pushes the caller's group-budget list as server-sent events: one
// snapshot on connect and a fresh one after every change to a group the
// caller belongs to. The subscription ends with the request.
func (h *Handlers) Stream(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	sub := h.Hub.Subscribe(user.ID, events.GroupChanged)
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	send := func(eventID string) error {
		groups, err := h.Groups.ListGroupBudgets(ctx, user.ID)
		if err != nil {
			return err
		}
		data, err := json.Marshal(toGroupResponses(groups))
		if err != nil {
			return err
		}
		if eventID != "" {
			if _, err := fmt.Fprintf(w, "id: %s\n", eventID); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "event: groupBudgets\ndata: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	if err := send(""); err != nil {
		h.log.InternalError("groups.stream: initial snapshot failed", err, "user_id", user.ID)
		return
	}
	h.log.Debug("groups.stream: subscribed", "user_id", user.ID)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("groups.stream: client gone", "user_id", user.ID)
			return
		case event, open := <-sub.Events():
			if !open {
				return
			}
			if err := send(event.ID); err != nil {
				if ctx.Err() == nil {
					h.log.InternalError("groups.stream: push failed", err, "user_id", user.ID)
				}
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
