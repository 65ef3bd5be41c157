package infrastructure

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Turn outcomes used as metric labels
const (
	OutcomeMenu          = "menu"
	OutcomeListing       = "listing"
	OutcomeMatch         = "match"
	OutcomeNoMatch       = "no_match"
	OutcomePrompt        = "prompt"
	OutcomeNotConfigured = "not_configured"
	OutcomeError         = "error"
)

// Metrics groups the bot's Prometheus collectors. A nil *Metrics is a no-op.
type Metrics struct {
	turns    *prometheus.CounterVec
	rowFetch prometheus.Histogram
	webhook  *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookupbot_turns_total",
			Help: "Dialogue turns by outcome.",
		}, []string{"outcome"}),
		rowFetch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lookupbot_row_fetch_seconds",
			Help:    "Duration of full row fetches from the data source.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		webhook: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookupbot_webhook_requests_total",
			Help: "Webhook requests by HTTP status code.",
		}, []string{"code"}),
	}
	reg.MustRegister(m.turns, m.rowFetch, m.webhook)
	return m
}

func (m *Metrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRowFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.rowFetch.Observe(d.Seconds())
}

func (m *Metrics) ObserveWebhook(status int) {
	if m == nil {
		return
	}
	m.webhook.WithLabelValues(strconv.Itoa(status)).Inc()
}
