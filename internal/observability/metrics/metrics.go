package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the assignment engine.
type SchedulingMetrics struct {
	assignmentsTotal *prometheus.CounterVec
	conflictsTotal   *prometheus.CounterVec
	summaryDuration  prometheus.Histogram
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		assignmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "assignment",
			Name:      "requests_total",
			Help:      "Total office assignment requests",
		}, []string{"outcome", "reason"}),
		conflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "conflict",
			Name:      "resolutions_total",
			Help:      "Total booking conflict resolutions",
		}, []string{"resolution"}),
		summaryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "scheduler",
			Subsystem: "summary",
			Name:      "generation_seconds",
			Help:      "Latency of daily summary generation",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.assignmentsTotal, m.conflictsTotal, m.summaryDuration)
	return m
}

func (m *SchedulingMetrics) ObserveAssignment(outcome, reason string) {
	if m == nil {
		return
	}
	m.assignmentsTotal.WithLabelValues(outcome, reason).Inc()
}

func (m *SchedulingMetrics) ObserveConflict(resolution string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(resolution).Inc()
}

func (m *SchedulingMetrics) ObserveSummaryDuration(seconds float64) {
	if m == nil {
		return
	}
	m.summaryDuration.Observe(seconds)
}
