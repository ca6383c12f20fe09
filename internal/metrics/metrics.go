package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainErrors "github.com/polkiloo/savingsvault/internal/domain/errors"
	"github.com/polkiloo/savingsvault/internal/domain/model"
)

const namespace = "savingsvault"

// Metrics owns the service collectors and exposes them on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	deposits        *prometheus.CounterVec
	depositedAmount prometheus.Counter
	drift           *prometheus.GaugeVec
	reserve         *prometheus.GaugeVec
	audits          *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		deposits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "deposits",
				Name:      "total",
				Help:      "Admin deposit requests by outcome.",
			},
			[]string{"outcome", "reason"},
		),
		depositedAmount: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "deposits",
				Name:      "amount_base_units_total",
				Help:      "Token base units moved into vaults by committed deposits.",
			},
		),
		drift: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "vault",
				Name:      "drift_base_units",
				Help:      "Ledger balance minus recorded claims per vault; non-zero means conservation is broken.",
			},
			[]string{"vault"},
		),
		reserve: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "vault",
				Name:      "reserve_base_units",
				Help:      "Admin-funded reserve per vault.",
			},
			[]string{"vault"},
		),
		audits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "reconciler",
				Name:      "checks_total",
				Help:      "Vault conservation checks by result.",
			},
			[]string{"result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.deposits,
		m.depositedAmount,
		m.drift,
		m.reserve,
		m.audits,
		m.httpRequests,
		m.httpDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// DepositCommitted counts a committed deposit and its amount.
func (m *Metrics) DepositCommitted(deposit *model.Deposit) {
	m.deposits.WithLabelValues("committed", "").Inc()
	m.depositedAmount.Add(float64(deposit.Amount))
}

// DepositRejected counts a rejected deposit by error category.
func (m *Metrics) DepositRejected(err error) {
	m.deposits.WithLabelValues("rejected", rejectionReason(err)).Inc()
}

// VaultAudited publishes the drift and reserve gauges of one reconciled vault.
func (m *Metrics) VaultAudited(summary *model.VaultSummary, err error) {
	if err != nil {
		m.audits.WithLabelValues("error").Inc()
		return
	}
	vault := summary.Vault.Address.String()
	m.drift.WithLabelValues(vault).Set(float64(summary.Drift()))
	m.reserve.WithLabelValues(vault).Set(float64(summary.Vault.Reserve))
	if summary.Balanced() {
		m.audits.WithLabelValues("balanced").Inc()
		return
	}
	m.audits.WithLabelValues("drift").Inc()
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrAuthorization):
		return "authorization"
	case errors.Is(err, domainErrors.ErrState):
		return "state"
	case errors.Is(err, domainErrors.ErrFunds):
		return "funds"
	case errors.Is(err, domainErrors.ErrDerivation):
		return "derivation"
	default:
		return "internal"
	}
}
