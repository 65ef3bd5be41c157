package infrastructure

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveTurn(OutcomeMatch)
	m.ObserveTurn(OutcomeMatch)
	m.ObserveTurn(OutcomeNoMatch)
	m.ObserveWebhook(200)
	m.ObserveRowFetch(120 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues(OutcomeMatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues(OutcomeNoMatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhook.WithLabelValues("200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.rowFetch))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTurn(OutcomeMenu)
		m.ObserveRowFetch(time.Second)
		m.ObserveWebhook(500)
	})
}
