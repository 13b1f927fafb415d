package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"expensezen/internal/domain/idempotency"
	"expensezen/pkg/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	IdempotencyHeader    = "Idempotency-Key"
	IdempotencyHitHeader = "X-Idempotency-Hit"
	maxIdempotentBody    = 1 << 20
)

type KeyStore interface {
	Begin(ctx context.Context, req idempotency.Request) (*idempotency.Reservation, error)
	Finish(ctx context.Context, id string, resp idempotency.Response) error
}

// NewIdempotency replays the stored response when an authenticated client
// repeats a request with the same Idempotency-Key. Requests without the
// header pass through untouched. Must run after the auth middleware.
func NewIdempotency(keys KeyStore, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxIdempotentBody))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_body", "could not read request body")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reservation, err := keys.Begin(r.Context(), idempotency.Request{
				UserID: userID,
				Key:    key,
				Method: r.Method,
				Path:   r.URL.Path,
				Body:   body,
			})
			switch {
			case errors.Is(err, idempotency.ErrKeyPayloadMismatch):
				writeError(w, http.StatusUnprocessableEntity, "idempotency_key_reused", "idempotency key was used with a different request")
				return
			case errors.Is(err, idempotency.ErrRequestInProgress):
				writeError(w, http.StatusConflict, "request_in_progress", "a request with this idempotency key is in progress")
				return
			case err != nil:
				log.InternalError("idempotency.begin: reserve key failed", err, "user_id", userID)
				writeError(w, http.StatusServiceUnavailable, "persistence_failure", "storage unavailable, try again")
				return
			}

			if reservation.Replay != nil {
				log.Debug("idempotency.begin: replaying stored response", "user_id", userID, "status", reservation.Replay.Status)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set(IdempotencyHitHeader, "true")
				w.WriteHeader(reservation.Replay.Status)
				_, _ = w.Write(reservation.Replay.Body)
				return
			}

			var recorded bytes.Buffer
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&recorded)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			// The client may already be gone; the outcome is still stored.
			ctx := context.WithoutCancel(r.Context())
			if err := keys.Finish(ctx, reservation.ID, idempotency.Response{Status: status, Body: recorded.Bytes()}); err != nil {
				log.InternalError("idempotency.finish: store response failed", err, "user_id", userID)
			}
		})
	}
}
