package tickets

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// Repository handles ticket persistence for the rider-facing flows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to ticket operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new ticket row. Unique violations on the vehicle or spot
// partial indexes surface as raw driver errors for the service to classify.
func (r *Repository) Create(ctx context.Context, dto CreateTicketDTO) (*models.Ticket, error) {
	ticket := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// OccupiedSpots returns the spot numbers currently held by occupying tickets.
func (r *Repository) OccupiedSpots(ctx context.Context) ([]string, error) {
	var spots []string
	if err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("spot_number IS NOT NULL AND status IN ?", statusStrings(enums.OccupyingTicketStatuses())).
		Pluck("spot_number", &spots).Error; err != nil {
		return nil, err
	}
	return spots, nil
}

// FindByID loads a ticket by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).First(&ticket, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ListActiveByUser returns the user's non-terminal tickets, newest first,
// with the vehicle preloaded.
func (r *Repository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	var list []models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("user_id = ? AND status IN ?", userID, statusStrings(enums.NonTerminalTicketStatuses())).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListCompletedByUser returns the user's completed tickets by exit time,
// newest first.
func (r *Repository) ListCompletedByUser(ctx context.Context, userID uuid.UUID) ([]models.Ticket, error) {
	var list []models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Where("user_id = ? AND status = ?", userID, enums.TicketStatusCompleted.String()).
		Order("exit_time DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindParkedForUser locates the user's PARKED ticket, optionally pinned to a
// specific ticket id.
func (r *Repository) FindParkedForUser(ctx context.Context, userID uuid.UUID, ticketID *uuid.UUID) (*models.Ticket, error) {
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.TicketStatusParked.String())
	if ticketID != nil {
		q = q.Where("id = ?", *ticketID)
	}
	var ticket models.Ticket
	if err := q.Order("created_at DESC").First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// RequestRetrieval conditionally moves a PARKED ticket to RETRIEVAL_REQUESTED,
// clearing the valet so the job re-enters the dispatch pool. Returns the
// number of rows moved.
func (r *Repository) RequestRetrieval(ctx context.Context, userID, ticketID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND user_id = ? AND status = ?", ticketID, userID, enums.TicketStatusParked.String()).
		Updates(map[string]any{
			"status":     enums.TicketStatusRetrievalRequested.String(),
			"valet_id":   nil,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// BulkComplete force-closes all of the user's ACTIVE tickets in one UPDATE and
// returns the affected count.
func (r *Repository) BulkComplete(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("user_id = ? AND status = ?", userID, enums.TicketStatusActive.String()).
		Updates(map[string]any{
			"status":     enums.TicketStatusCompleted.String(),
			"exit_time":  at,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

func statusStrings(statuses []enums.TicketStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.String())
	}
	return out
}
