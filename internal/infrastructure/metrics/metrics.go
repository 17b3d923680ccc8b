package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records assessment outcomes. A nil *Metrics is a no-op.
type Metrics struct {
	AssessmentsTotal  *prometheus.CounterVec
	CreditScore       prometheus.Histogram
	AssessmentLatency prometheus.Histogram
	ReportsUnlocked   prometheus.Counter
}

// New registers the assessment metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the assessment metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		AssessmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loanlens_assessments_total",
			Help: "Total completed assessments by risk tier",
		}, []string{"risk"}),

		CreditScore: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanlens_credit_score",
			Help:    "Distribution of computed credit scores",
			Buckets: []float64{300, 400, 500, 550, 600, 650, 700, 750, 800, 850, 900},
		}),

		AssessmentLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "loanlens_assessment_duration_seconds",
			Help:    "Duration of an assessment including persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		ReportsUnlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "loanlens_reports_unlocked_total",
			Help: "Total reports unlocked after payment",
		}),
	}
}

// ObserveAssessment records one completed assessment.
func (m *Metrics) ObserveAssessment(risk string, creditScore int, took time.Duration) {
	if m == nil {
		return
	}
	m.AssessmentsTotal.WithLabelValues(risk).Inc()
	m.CreditScore.Observe(float64(creditScore))
	m.AssessmentLatency.Observe(took.Seconds())
}

// IncReportsUnlocked records one paid report unlock.
func (m *Metrics) IncReportsUnlocked() {
	if m != nil {
		m.ReportsUnlocked.Inc()
	}
}
