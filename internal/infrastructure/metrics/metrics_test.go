package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/loanlens/assessment/internal/domain/port"
)

var _ port.MetricsRecorder = (*Metrics)(nil)

func TestMetrics_ObserveAssessment(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.ObserveAssessment("moderate", 681, 20*time.Millisecond)
	m.ObserveAssessment("moderate", 690, 10*time.Millisecond)
	m.ObserveAssessment("low", 760, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("moderate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssessmentsTotal.WithLabelValues("low")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.AssessmentsTotal))
}

func TestMetrics_IncReportsUnlocked(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())
	m.IncReportsUnlocked()
	m.IncReportsUnlocked()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsUnlocked))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAssessment("low", 800, time.Second)
		m.IncReportsUnlocked()
	})
}
