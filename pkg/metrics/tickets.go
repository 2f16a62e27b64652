package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// TicketMetrics records ticket lifecycle and spot allocation activity.
type TicketMetrics struct {
	transitions      *prometheus.CounterVec
	allocationRetry  prometheus.Counter
	lotFullRejection prometheus.Counter
}

// NewTicketMetrics registers the ticket metrics on the provided registerer.
func NewTicketMetrics(reg prometheus.Registerer) *TicketMetrics {
	if reg == nil {
		return &TicketMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticket_transitions",
		Help: "Ticket status transitions by from/to status.",
	}, []string{"from", "to"})
	allocationRetry := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "spot_allocation_retries",
		Help: "Spot allocations retried after losing a concurrent claim.",
	})
	lotFullRejection := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lot_full_rejections",
		Help: "Ticket creations rejected because every spot was occupied.",
	})
	reg.MustRegister(transitions, allocationRetry, lotFullRejection)
	return &TicketMetrics{
		transitions:      transitions,
		allocationRetry:  allocationRetry,
		lotFullRejection: lotFullRejection,
	}
}

// ObserveTransition counts a successful ticket status transition.
func (m *TicketMetrics) ObserveTransition(from, to enums.TicketStatus) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(statusLabel(from), statusLabel(to)).Inc()
}

// IncAllocationRetry counts a spot allocation that had to retry.
func (m *TicketMetrics) IncAllocationRetry() {
	if m == nil || m.allocationRetry == nil {
		return
	}
	m.allocationRetry.Inc()
}

// IncLotFull counts a ticket creation rejected for lack of free spots.
func (m *TicketMetrics) IncLotFull() {
	if m == nil || m.lotFullRejection == nil {
		return
	}
	m.lotFullRejection.Inc()
}

func statusLabel(status enums.TicketStatus) string {
	if status == "" {
		return "none"
	}
	return status.String()
}
