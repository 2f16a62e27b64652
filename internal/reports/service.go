package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/parkline-app/parkline-backend/internal/drivers"
	"github.com/parkline-app/parkline-backend/internal/tickets"
	"github.com/parkline-app/parkline-backend/pkg/config"
	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
	pkgerrors "github.com/parkline-app/parkline-backend/pkg/errors"
)

const recentOperationsLimit = 20

type reportsRepository interface {
	CountByStatuses(ctx context.Context, location string, statuses []string) (int64, error)
	CountCreatedSince(ctx context.Context, location string, since time.Time) (int64, error)
	CountAll(ctx context.Context, location string) (int64, error)
	SumCompletedAmount(ctx context.Context, location string, since time.Time) (decimal.Decimal, error)
	Recent(ctx context.Context, location string, limit int) ([]models.Ticket, error)
}

type approvalsReader interface {
	PendingApprovals(ctx context.Context) ([]drivers.DriverDTO, error)
}

// ManagerStatsDTO is the shift dashboard headline.
type ManagerStatsDTO struct {
	ActiveCars   int64           `json:"active_cars"`
	Retrieving   int64           `json:"retrieving"`
	TotalToday   int64           `json:"total_today"`
	RevenueToday decimal.Decimal `json:"revenue_today"`
}

// ManagerSummaryDTO joins the stats with the live operations feed.
type ManagerSummaryDTO struct {
	Stats            ManagerStatsDTO     `json:"stats"`
	RecentOperations []tickets.TicketDTO `json:"recent_operations"`
}

// AdminStatsDTO is the all-time site rollup.
type AdminStatsDTO struct {
	TotalTickets    int64           `json:"total_tickets"`
	TotalCollection decimal.Decimal `json:"total_collection"`
	ActiveParking   int64           `json:"active_parking"`
}

// AdminSummaryDTO joins the rollup with outstanding driver approvals.
type AdminSummaryDTO struct {
	Stats            AdminStatsDTO       `json:"stats"`
	PendingApprovals []drivers.DriverDTO `json:"pending_approvals"`
}

// Service exposes the aggregation dashboards.
type Service interface {
	ManagerStats(ctx context.Context) (*ManagerStatsDTO, error)
	ManagerSummary(ctx context.Context) (*ManagerSummaryDTO, error)
	RecentOperations(ctx context.Context) ([]tickets.TicketDTO, error)
	AdminStats(ctx context.Context) (*AdminStatsDTO, error)
	AdminSummary(ctx context.Context) (*AdminSummaryDTO, error)
}

type service struct {
	repo      reportsRepository
	approvals approvalsReader
	site      config.SiteConfig
	now       func() time.Time
}

// NewService builds a reports service bound to the configured site.
func NewService(repo reportsRepository, approvals approvalsReader, site config.SiteConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if approvals == nil {
		return nil, fmt.Errorf("approvals reader required")
	}
	return &service{
		repo:      repo,
		approvals: approvals,
		site:      site,
		now:       time.Now,
	}, nil
}

func (s *service) startOfDay() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) ManagerStats(ctx context.Context) (*ManagerStatsDTO, error) {
	activeCars, err := s.repo.CountByStatuses(ctx, s.site.Name, []string{
		enums.TicketStatusActive.String(),
		enums.TicketStatusParked.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active cars")
	}

	retrieving, err := s.repo.CountByStatuses(ctx, s.site.Name, []string{
		enums.TicketStatusRetrieving.String(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count retrieving")
	}

	dayStart := s.startOfDay()
	totalToday, err := s.repo.CountCreatedSince(ctx, s.site.Name, dayStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count today's tickets")
	}

	revenue, err := s.repo.SumCompletedAmount(ctx, s.site.Name, dayStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum today's revenue")
	}

	return &ManagerStatsDTO{
		ActiveCars:   activeCars,
		Retrieving:   retrieving,
		TotalToday:   totalToday,
		RevenueToday: revenue,
	}, nil
}

func (s *service) RecentOperations(ctx context.Context) ([]tickets.TicketDTO, error) {
	list, err := s.repo.Recent(ctx, s.site.Name, recentOperationsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent operations")
	}
	return tickets.FromModels(list), nil
}

func (s *service) ManagerSummary(ctx context.Context) (*ManagerSummaryDTO, error) {
	stats, err := s.ManagerStats(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.RecentOperations(ctx)
	if err != nil {
		return nil, err
	}
	return &ManagerSummaryDTO{Stats: *stats, RecentOperations: recent}, nil
}

func (s *service) AdminStats(ctx context.Context) (*AdminStatsDTO, error) {
	total, err := s.repo.CountAll(ctx, s.site.Name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count tickets")
	}

	collection, err := s.repo.SumCompletedAmount(ctx, s.site.Name, time.Time{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum collection")
	}

	statuses := make([]string, 0)
	for _, st := range enums.NonTerminalTicketStatuses() {
		statuses = append(statuses, st.String())
	}
	activeParking, err := s.repo.CountByStatuses(ctx, s.site.Name, statuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active parking")
	}

	return &AdminStatsDTO{
		TotalTickets:    total,
		TotalCollection: collection,
		ActiveParking:   activeParking,
	}, nil
}

func (s *service) AdminSummary(ctx context.Context) (*AdminSummaryDTO, error) {
	stats, err := s.AdminStats(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.approvals.PendingApprovals(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminSummaryDTO{Stats: *stats, PendingApprovals: pending}, nil
}
