package enums

import "fmt"

// TicketStatus tracks the lifecycle of a valet parking ticket.
type TicketStatus string

const (
	TicketStatusActive                   TicketStatus = "ACTIVE"
	TicketStatusValetAssignedForParking  TicketStatus = "VALET_ASSIGNED_FOR_PARKING"
	TicketStatusParked                   TicketStatus = "PARKED"
	TicketStatusRetrievalRequested       TicketStatus = "RETRIEVAL_REQUESTED"
	TicketStatusValetAssignedForRetrieval TicketStatus = "VALET_ASSIGNED_FOR_RETRIEVAL"
	TicketStatusRetrieving               TicketStatus = "RETRIEVING"
	TicketStatusCompleted                TicketStatus = "COMPLETED"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusActive,
	TicketStatusValetAssignedForParking,
	TicketStatusParked,
	TicketStatusRetrievalRequested,
	TicketStatusValetAssignedForRetrieval,
	TicketStatusRetrieving,
	TicketStatusCompleted,
}

// String implements fmt.Stringer.
func (t TicketStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketStatus.
func (t TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the ticket has reached its final state.
func (t TicketStatus) IsTerminal() bool {
	return t == TicketStatusCompleted
}

// NonTerminalTicketStatuses returns every status in which a ticket is still live.
// A vehicle may hold at most one ticket across these statuses.
func NonTerminalTicketStatuses() []TicketStatus {
	return []TicketStatus{
		TicketStatusActive,
		TicketStatusValetAssignedForParking,
		TicketStatusParked,
		TicketStatusRetrievalRequested,
		TicketStatusValetAssignedForRetrieval,
		TicketStatusRetrieving,
	}
}

// OccupyingTicketStatuses returns the statuses during which a ticket holds its
// parking spot. Spot numbers are unique across tickets in these statuses.
func OccupyingTicketStatuses() []TicketStatus {
	return NonTerminalTicketStatuses()
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}
