package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/parkline-app/parkline-backend/pkg/enums"
)

func TestTicketMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewTicketMetrics(reg)

	metrics.ObserveTransition(enums.TicketStatusActive, enums.TicketStatusValetAssignedForParking)
	metrics.ObserveTransition(enums.TicketStatusActive, enums.TicketStatusValetAssignedForParking)
	metrics.ObserveTransition("", enums.TicketStatusActive)
	metrics.IncAllocationRetry()
	metrics.IncLotFull()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchTransitionValue(mfs, "ACTIVE", "VALET_ASSIGNED_FOR_PARKING"); err != nil {
		t.Fatalf("fetch transition: %v", err)
	} else if got != 2 {
		t.Fatalf("expected transition=2, got %f", got)
	}

	if got, err := fetchTransitionValue(mfs, "none", "ACTIVE"); err != nil {
		t.Fatalf("fetch creation transition: %v", err)
	} else if got != 1 {
		t.Fatalf("expected creation transition=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "spot_allocation_retries"); err != nil {
		t.Fatalf("fetch retries: %v", err)
	} else if got != 1 {
		t.Fatalf("expected retries=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "lot_full_rejections"); err != nil {
		t.Fatalf("fetch lot full: %v", err)
	} else if got != 1 {
		t.Fatalf("expected lot_full=1, got %f", got)
	}
}

func TestTicketMetricsNilSafe(t *testing.T) {
	var metrics *TicketMetrics
	metrics.ObserveTransition(enums.TicketStatusActive, enums.TicketStatusParked)
	metrics.IncAllocationRetry()
	metrics.IncLotFull()

	empty := NewTicketMetrics(nil)
	empty.ObserveTransition(enums.TicketStatusActive, enums.TicketStatusParked)
	empty.IncAllocationRetry()
	empty.IncLotFull()
}

func fetchTransitionValue(mfs []*dto.MetricFamily, from, to string) (float64, error) {
	mf := findMetricFamily(mfs, "ticket_transitions")
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", "ticket_transitions")
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), "from", from) && matchesLabel(metric.GetLabel(), "to", to) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("transition %s->%s not found", from, to)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	if len(mf.GetMetric()) == 0 {
		return 0, fmt.Errorf("metric %q has no samples", name)
	}
	return mf.GetMetric()[0].GetCounter().GetValue(), nil
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
