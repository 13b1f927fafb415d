package httpserver

import (
	"net/http"
	"time"

	"expensezen/internal/config"
	"expensezen/internal/metrics"
	"expensezen/internal/transport/httpserver/handler"
	"expensezen/internal/transport/httpserver/middleware"
	"expensezen/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the router needs besides the handlers.
// Metrics is optional.
type Deps struct {
	Tokens  middleware.TokenVerifier
	Keys    middleware.KeyStore
	Metrics *metrics.Metrics
}

func NewRouter(cfg config.Config, handlers *handler.Handlers, deps Deps, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(middleware.NewCORS(cfg.HTTP.AllowedOrigins))

	if deps.Metrics != nil && cfg.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	auth := middleware.NewAuth(cfg.Auth, deps.Tokens, log)
	idempotent := middleware.NewIdempotency(deps.Keys, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Common.Health)

		// Streams stay open far longer than the request timeout.
		r.With(auth.Middleware).Get("/group-budgets/stream", handlers.Groups.Stream)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))

			r.Post("/auth/signup", handlers.Common.Signup)
			r.Post("/auth/login", handlers.Common.Login)
			r.Post("/auth/password-reset", handlers.Common.PasswordReset)
			r.Post("/auth/password-reset/confirm", handlers.Common.PasswordResetConfirm)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Get("/auth/me", handlers.Common.AuthMe)
				r.Patch("/me", handlers.Common.UpdateMe)
				r.Post("/me/password", handlers.Common.ChangePassword)

				r.Get("/budgets", handlers.Ledger.ListBudgets)
				r.Post("/budgets", handlers.Ledger.CreateBudget)
				r.Put("/budgets/{id}", handlers.Ledger.EditBudget)
				r.With(idempotent).Post("/budgets/{id}/spend", handlers.Ledger.RecordSpend)
				r.Delete("/budgets/{id}", handlers.Ledger.DeleteBudget)

				r.Get("/goals", handlers.Ledger.ListGoals)
				r.Post("/goals", handlers.Ledger.CreateGoal)
				r.Post("/goals/evaluate", handlers.Ledger.EvaluateGoals)
				r.Delete("/goals/{id}", handlers.Ledger.DeleteGoal)

				r.Get("/group-budgets", handlers.Groups.ListGroupBudgets)
				r.Post("/group-budgets", handlers.Groups.CreateGroupBudget)
				r.Get("/group-budgets/{id}", handlers.Groups.GetGroupBudget)
				r.With(idempotent).Post("/group-budgets/{id}/payments", handlers.Groups.PayShare)
				r.Delete("/group-budgets/{id}", handlers.Groups.DeleteGroupBudget)
				r.Get("/users/search", handlers.Groups.SearchMembers)

				r.Get("/wallet", handlers.Ledger.GetWallet)
				r.With(idempotent).Post("/wallet/transfers", handlers.Ledger.Transfer)
				r.With(idempotent).Post("/wallet/top-ups", handlers.Ledger.TopUp)
				r.Put("/wallet/monthly-limit", handlers.Ledger.SetMonthlyLimit)

				r.Get("/notifications", handlers.Insights.ListNotifications)
				r.Post("/notifications/{id}/read", handlers.Insights.MarkNotificationRead)
				r.Post("/notifications/read-all", handlers.Insights.MarkAllNotificationsRead)

				r.Get("/leaderboard", handlers.Insights.Leaderboard)
				r.Get("/reports/overview", handlers.Insights.Overview)
			})
		})
	})

	return r
}
