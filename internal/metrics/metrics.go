// Package metrics exposes ledger and HTTP counters in the Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"expensezen/internal/domain/money"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expensezen"

type Metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.HistogramVec
	overspends     *prometheus.CounterVec
	overspendTotal prometheus.Counter
	goals          prometheus.Counter
	transfers      *prometheus.CounterVec
	shares         prometheus.Counter
	shareAmount    prometheus.Counter
	droppedEvents  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		overspends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_overspends_total",
			Help:      "Spends that pushed a budget over its limit.",
		}, []string{"category"}),
		overspendTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_overspent_amount_total",
			Help:      "Sum of overspent amounts in major units.",
		}),
		goals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "goals_completed_total",
			Help:      "Goals marked completed.",
		}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_transfers_total",
			Help:      "Wallet transfers by direction and final phase.",
		}, []string{"direction", "phase"}),
		shares: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_shares_paid_total",
			Help:      "Group budget shares paid.",
		}),
		shareAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_share_amount_total",
			Help:      "Sum of paid group shares in major units.",
		}),
		droppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "realtime_dropped_events_total",
			Help:      "Events not delivered to a full realtime subscription.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.overspends,
		m.overspendTotal,
		m.goals,
		m.transfers,
		m.shares,
		m.shareAmount,
		m.droppedEvents,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request latency labelled by the matched chi route so
// ids in paths do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Overspend(category string, amountOver money.Money) {
	m.overspends.WithLabelValues(category).Inc()
	m.overspendTotal.Add(amountOver.Float64())
}

func (m *Metrics) GoalCompleted() {
	m.goals.Inc()
}

func (m *Metrics) Transfer(direction string, phase string) {
	m.transfers.WithLabelValues(direction, phase).Inc()
}

func (m *Metrics) SharePaid(amount money.Money) {
	m.shares.Inc()
	m.shareAmount.Add(amount.Float64())
}

func (m *Metrics) EventDropped() {
	m.droppedEvents.Inc()
}
