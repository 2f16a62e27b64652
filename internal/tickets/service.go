package tickets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/db"
	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
	"github.com/parkline-app/parkline-backend/pkg/metrics"
)

// maxAllocateAttempts bounds the reallocation loop when a concurrent create
// claims the same spot first.
const maxAllocateAttempts = 3

type ticketRepository interface {
	Create(ctx context.Context, dto CreateTicketDTO) (*models.Ticket, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error)
	ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error)
	FindParkedForUser(ctx context.Context, userID uuid.UUID, ticketID *uuid.UUID) (*models.Ticket, error)
	RequestRetrieval(ctx context.Context, userID, ticketID uuid.UUID) (int64, error)
	BulkComplete(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

type vehicleReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

type spotAllocator interface {
	Allocate(ctx context.Context) (string, error)
}

// Service exposes the rider-facing ticket lifecycle.
type Service interface {
	Create(ctx context.Context, userID, vehicleID uuid.UUID, gateID string) (*TicketDTO, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]TicketDTO, error)
	History(ctx context.Context, userID uuid.UUID) ([]TicketDTO, error)
	RequestRetrieval(ctx context.Context, userID uuid.UUID, ticketID *uuid.UUID) (*TicketDTO, error)
	BulkComplete(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo      ticketRepository
	vehicles  vehicleReader
	allocator spotAllocator
	site      config.SiteConfig
	metrics   *metrics.TicketMetrics
}

// NewService builds a ticket service with the provided collaborators.
func NewService(repo ticketRepository, vehicles vehicleReader, allocator spotAllocator, site config.SiteConfig, m *metrics.TicketMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ticket repository required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle reader required")
	}
	if allocator == nil {
		return nil, fmt.Errorf("spot allocator required")
	}
	return &service{
		repo:      repo,
		vehicles:  vehicles,
		allocator: allocator,
		site:      site,
		metrics:   m,
	}, nil
}

// Create opens a ticket for the user's vehicle at the gate. A free spot is
// allocated heuristically and the insert is retried when the partial unique
// index reports the spot was claimed concurrently.
func (s *service) Create(ctx context.Context, userID, vehicleID uuid.UUID, gateID string) (*TicketDTO, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if vehicle.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	}

	for attempt := 1; attempt <= maxAllocateAttempts; attempt++ {
		spot, err := s.allocator.Allocate(ctx)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeLotFull) {
				s.metrics.IncLotFull()
			}
			return nil, err
		}

		ticket, err := s.repo.Create(ctx, CreateTicketDTO{
			UserID:     userID,
			VehicleID:  vehicleID,
			GateID:     gateID,
			SpotNumber: spot,
			Amount:     s.site.FlatFee(),
			Location:   s.site.Name,
		})
		if err == nil {
			s.metrics.ObserveTransition("", enums.TicketStatusActive)
			return FromModel(ticket), nil
		}

		if db.IsUniqueViolation(err, "tickets_vehicle_id_key") {
			return nil, pkgerrors.New(pkgerrors.CodeDuplicateTicket, "vehicle already has an active ticket")
		}
		if db.IsUniqueViolation(err, "tickets_spot_number_key") {
			s.metrics.IncAllocationRetry()
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ticket")
	}

	s.metrics.IncLotFull()
	return nil, pkgerrors.New(pkgerrors.CodeLotFull, "no parking spot could be claimed")
}

func (s *service) ListActive(ctx context.Context, userID uuid.UUID) ([]TicketDTO, error) {
	list, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active tickets")
	}
	return FromModels(list), nil
}

func (s *service) History(ctx context.Context, userID uuid.UUID) ([]TicketDTO, error) {
	list, err := s.repo.ListCompletedByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ticket history")
	}
	return FromModels(list), nil
}

// RequestRetrieval moves the user's PARKED ticket into the retrieval pool. The
// valet reference is cleared so any driver can pick the job up.
func (s *service) RequestRetrieval(ctx context.Context, userID uuid.UUID, ticketID *uuid.UUID) (*TicketDTO, error) {
	ticket, err := s.repo.FindParkedForUser(ctx, userID, ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no parked ticket found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find parked ticket")
	}

	rows, err := s.repo.RequestRetrieval(ctx, userID, ticket.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request retrieval")
	}
	if rows == 0 {
		// the ticket moved between the read and the conditional update
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no parked ticket found")
	}

	s.metrics.ObserveTransition(enums.TicketStatusParked, enums.TicketStatusRetrievalRequested)

	ticket.Status = enums.TicketStatusRetrievalRequested
	ticket.ValetID = nil
	return FromModel(ticket), nil
}

// BulkComplete force-closes the user's ACTIVE tickets and reports how many
// were closed.
func (s *service) BulkComplete(ctx context.Context, userID uuid.UUID) (int64, error) {
	rows, err := s.repo.BulkComplete(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bulk complete tickets")
	}
	for i := int64(0); i < rows; i++ {
		s.metrics.ObserveTransition(enums.TicketStatusActive, enums.TicketStatusCompleted)
	}
	return rows, nil
}
