package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestSchedulingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveAssignment("success", "sticky")
	m.ObserveAssignment("success", "sticky")
	m.ObserveConflict("relocate")
	m.ObserveSummaryDuration(0.25)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var assignments *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "scheduler_assignment_requests_total" {
			assignments = mf
		}
	}
	if assignments == nil {
		t.Fatal("expected scheduler_assignment_requests_total to be registered")
	}
	if got := assignments.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("expected counter value 2, got %f", got)
	}
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveAssignment("success", "default")
	m.ObserveConflict("cannot-relocate")
	m.ObserveSummaryDuration(0.1)
}
