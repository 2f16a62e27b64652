package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/internal/drivers"
	"github.com/parkline-app/parkline-backend/internal/tickets"
	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/metrics"
)

type dispatchRepository interface {
	ListAvailable(ctx context.Context) ([]models.Ticket, error)
	Accept(ctx context.Context, driverID, ticketID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error)
	CurrentForDriver(ctx context.Context, driverID uuid.UUID) (*models.Ticket, error)
	AdvanceStatus(ctx context.Context, driverID, ticketID uuid.UUID, from, to enums.TicketStatus, at time.Time) (int64, error)
	HistoryForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ticket, error)
	Assign(ctx context.Context, driverID, ticketID uuid.UUID, observed, to enums.TicketStatus, at time.Time) (int64, error)
}

type profileReader interface {
	ProfileFor(ctx context.Context, userID uuid.UUID) (*drivers.ProfileDTO, error)
}

// Service exposes job dispatch for valets plus the manager override.
type Service interface {
	ListAvailable(ctx context.Context, driverID uuid.UUID) ([]tickets.TicketDTO, error)
	Accept(ctx context.Context, driverID, ticketID uuid.UUID) (*tickets.TicketDTO, error)
	CurrentJob(ctx context.Context, driverID uuid.UUID) (*tickets.TicketDTO, error)
	UpdateJobStatus(ctx context.Context, driverID, ticketID uuid.UUID, target enums.TicketStatus) (*tickets.TicketDTO, error)
	JobHistory(ctx context.Context, driverID uuid.UUID) ([]tickets.TicketDTO, error)
	AssignValet(ctx context.Context, ticketID, driverID uuid.UUID) (*tickets.TicketDTO, error)
}

type service struct {
	repo     dispatchRepository
	profiles profileReader
	metrics  *metrics.TicketMetrics
}

// NewService builds a dispatch service with the provided collaborators.
func NewService(repo dispatchRepository, profiles profileReader, m *metrics.TicketMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dispatch repository required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile reader required")
	}
	return &service{repo: repo, profiles: profiles, metrics: m}, nil
}

func (s *service) driverIsActive(ctx context.Context, driverID uuid.UUID) (bool, error) {
	profile, err := s.profiles.ProfileFor(ctx, driverID)
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Status == enums.DriverStatusActive, nil
}

// ListAvailable returns the open job pool. Drivers without an ACTIVE profile
// see an empty list rather than an error.
func (s *service) ListAvailable(ctx context.Context, driverID uuid.UUID) ([]tickets.TicketDTO, error) {
	active, err := s.driverIsActive(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !active {
		return []tickets.TicketDTO{}, nil
	}

	list, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available jobs")
	}
	return tickets.FromModels(list), nil
}

// Accept claims a job for the driver. The conditional UPDATE is the sole
// arbiter: exactly one concurrent caller sees a nonzero row count.
func (s *service) Accept(ctx context.Context, driverID, ticketID uuid.UUID) (*tickets.TicketDTO, error) {
	active, err := s.driverIsActive(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, pkgerrors.New(pkgerrors.CodeDriverNotActive, "driver account is not active")
	}

	rows, err := s.repo.Accept(ctx, driverID, ticketID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept job")
	}
	if rows == 0 {
		return nil, s.classifyAcceptFailure(ctx, ticketID)
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload ticket")
	}

	switch ticket.Status {
	case enums.TicketStatusValetAssignedForParking:
		s.metrics.ObserveTransition(enums.TicketStatusActive, ticket.Status)
	case enums.TicketStatusValetAssignedForRetrieval:
		s.metrics.ObserveTransition(enums.TicketStatusRetrievalRequested, ticket.Status)
	}
	return tickets.FromModel(ticket), nil
}

func (s *service) classifyAcceptFailure(ctx context.Context, ticketID uuid.UUID) error {
	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "inspect ticket")
	}
	if ticket.ValetID != nil {
		return pkgerrors.New(pkgerrors.CodeAlreadyAssigned, "job already accepted by another driver")
	}
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "ticket is not accepting a valet")
}

// CurrentJob returns the driver's in-progress job, or nil when idle.
func (s *service) CurrentJob(ctx context.Context, driverID uuid.UUID) (*tickets.TicketDTO, error) {
	ticket, err := s.repo.CurrentForDriver(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current job")
	}
	return tickets.FromModel(ticket), nil
}

// UpdateJobStatus advances the driver's job along its forward edge. The update
// is conditioned on the status the driver saw, so a stale report loses.
func (s *service) UpdateJobStatus(ctx context.Context, driverID, ticketID uuid.UUID, target enums.TicketStatus) (*tickets.TicketDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid ticket status")
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}
	if ticket.ValetID == nil || *ticket.ValetID != driverID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
	}
	if !tickets.DriverCanAdvance(ticket.Status, target) {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "status change not allowed").
			WithDetails(map[string]any{"from": ticket.Status, "to": target})
	}

	rows, err := s.repo.AdvanceStatus(ctx, driverID, ticketID, ticket.Status, target, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance job status")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "ticket state changed, retry")
	}

	s.metrics.ObserveTransition(ticket.Status, target)

	updated, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload ticket")
	}
	return tickets.FromModel(updated), nil
}

func (s *service) JobHistory(ctx context.Context, driverID uuid.UUID) ([]tickets.TicketDTO, error) {
	list, err := s.repo.HistoryForDriver(ctx, driverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job history")
	}
	return tickets.FromModels(list), nil
}

// AssignValet is the manager override. The target driver must be ACTIVE and,
// unlike Accept, an already-held job may be reassigned.
func (s *service) AssignValet(ctx context.Context, ticketID, driverID uuid.UUID) (*tickets.TicketDTO, error) {
	active, err := s.driverIsActive(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, pkgerrors.New(pkgerrors.CodeDriverNotActive, "driver account is not active")
	}

	ticket, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ticket not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ticket")
	}

	next, ok := tickets.AssignmentStatusFor(ticket.Status)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "ticket cannot be assigned").
			WithDetails(map[string]any{"status": ticket.Status})
	}

	rows, err := s.repo.Assign(ctx, driverID, ticketID, ticket.Status, next, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign valet")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "ticket state changed, retry")
	}

	if ticket.Status != next {
		s.metrics.ObserveTransition(ticket.Status, next)
	}

	updated, err := s.repo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload ticket")
	}
	return tickets.FromModel(updated), nil
}
