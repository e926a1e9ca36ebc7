// Package metrics exposes Prometheus counters for the ledger bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK        = "ok"
	OutcomeUsage     = "usage"
	OutcomeExpired   = "expired"
	OutcomeMalformed = "malformed"
	OutcomeError     = "error"
)

// Metrics holds the bot's collectors.
type Metrics struct {
	Commands           *prometheus.CounterVec
	Choices            *prometheus.CounterVec
	ObligationsWritten prometheus.Counter
	StoreErrors        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgerbot",
			Name:      "commands_total",
			Help:      "Text commands handled, by command and outcome.",
		}, []string{"command", "outcome"}),
		Choices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgerbot",
			Name:      "choices_total",
			Help:      "Button presses handled, by action and outcome.",
		}, []string{"action", "outcome"}),
		ObligationsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledgerbot",
			Name:      "obligations_written_total",
			Help:      "Shared-expense obligations persisted.",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledgerbot",
			Name:      "store_errors_total",
			Help:      "Failed ledger store operations, by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.Commands, m.Choices, m.ObligationsWritten, m.StoreErrors)
	return m
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop returns metrics registered nowhere, for callers that do not export them.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
