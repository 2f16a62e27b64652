package tickets

import "github.com/parkline-app/parkline-backend/pkg/enums"

// transitionTable is the closed set of legal ticket moves. Anything not listed
// is rejected with an invalid-transition error.
var transitionTable = map[enums.TicketStatus][]enums.TicketStatus{
	enums.TicketStatusActive: {
		enums.TicketStatusValetAssignedForParking,
		enums.TicketStatusCompleted, // bulk close of abandoned tickets
	},
	enums.TicketStatusValetAssignedForParking: {
		enums.TicketStatusParked,
	},
	enums.TicketStatusParked: {
		enums.TicketStatusRetrievalRequested,
	},
	enums.TicketStatusRetrievalRequested: {
		enums.TicketStatusValetAssignedForRetrieval,
	},
	enums.TicketStatusValetAssignedForRetrieval: {
		enums.TicketStatusRetrieving,
	},
	enums.TicketStatusRetrieving: {
		enums.TicketStatusCompleted,
	},
}

// driverForwardEdges are the transitions a valet may report while working a
// job they hold.
var driverForwardEdges = map[enums.TicketStatus]enums.TicketStatus{
	enums.TicketStatusValetAssignedForParking:   enums.TicketStatusParked,
	enums.TicketStatusValetAssignedForRetrieval: enums.TicketStatusRetrieving,
	enums.TicketStatusRetrieving:                enums.TicketStatusCompleted,
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to enums.TicketStatus) bool {
	for _, allowed := range transitionTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DriverCanAdvance reports whether target is the legal driver forward edge
// from the current status.
func DriverCanAdvance(from, target enums.TicketStatus) bool {
	next, ok := driverForwardEdges[from]
	return ok && next == target
}

// AssignmentStatusFor returns the status a manager assignment moves the ticket
// to, based on the status observed at assignment time. The second return is
// false when the ticket cannot accept an assignment.
func AssignmentStatusFor(current enums.TicketStatus) (enums.TicketStatus, bool) {
	switch current {
	case enums.TicketStatusActive:
		return enums.TicketStatusValetAssignedForParking, true
	case enums.TicketStatusRetrievalRequested,
		enums.TicketStatusValetAssignedForRetrieval,
		enums.TicketStatusRetrieving:
		return enums.TicketStatusValetAssignedForRetrieval, true
	case enums.TicketStatusValetAssignedForParking:
		return enums.TicketStatusValetAssignedForParking, true
	default:
		return "", false
	}
}
