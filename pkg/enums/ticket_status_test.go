package enums

import "testing"

func TestTicketStatusValidity(t *testing.T) {
	for _, status := range validTicketStatuses {
		if !status.IsValid() {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if TicketStatus("PARKED_BADLY").IsValid() {
		t.Fatalf("unknown status should not validate")
	}
}

func TestParseTicketStatus(t *testing.T) {
	status, err := ParseTicketStatus("RETRIEVAL_REQUESTED")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if status != TicketStatusRetrievalRequested {
		t.Fatalf("unexpected status %s", status)
	}
	if _, err := ParseTicketStatus("retrieval_requested"); err == nil {
		t.Fatalf("lowercase input should be rejected")
	}
}

func TestOccupyingStatusesExcludeCompleted(t *testing.T) {
	for _, status := range OccupyingTicketStatuses() {
		if status.IsTerminal() {
			t.Fatalf("terminal status %s must not occupy a spot", status)
		}
	}
	if len(OccupyingTicketStatuses()) != len(validTicketStatuses)-1 {
		t.Fatalf("every non-terminal status should occupy a spot")
	}
}

func TestRoleAndDriverStatusParsing(t *testing.T) {
	if _, err := ParseRole("MANAGER"); err != nil {
		t.Fatalf("manager should parse: %v", err)
	}
	if _, err := ParseRole("JANITOR"); err == nil {
		t.Fatalf("unknown role should fail")
	}
	if _, err := ParseDriverStatus("PENDING"); err != nil {
		t.Fatalf("pending should parse: %v", err)
	}
	if DriverStatus("SUSPENDED").IsValid() {
		t.Fatalf("unknown driver status should not validate")
	}
}
