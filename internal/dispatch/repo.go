package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// Repository handles the valet-facing ticket queries. Arbitration relies on
// conditional UPDATEs: the row version observed in the WHERE clause is the
// only claim check, so two drivers racing for a job cannot both win.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to dispatch operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var availableStatuses = []string{
	enums.TicketStatusActive.String(),
	enums.TicketStatusRetrievalRequested.String(),
}

// ListAvailable returns unclaimed jobs, most recently touched first.
func (r *Repository) ListAvailable(ctx context.Context) ([]models.Ticket, error) {
	var list []models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Vehicle").
		Where("valet_id IS NULL AND status IN ?", availableStatuses).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Accept atomically claims an unclaimed job for the driver. The CASE picks the
// assignment status from the status the UPDATE actually observes. Returns the
// number of rows claimed.
func (r *Repository) Accept(ctx context.Context, driverID, ticketID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE tickets
		SET valet_id = ?,
		    status = CASE status
		        WHEN ? THEN ?
		        WHEN ? THEN ?
		        ELSE status
		    END,
		    updated_at = ?
		WHERE id = ? AND valet_id IS NULL AND status IN (?, ?)`,
		driverID,
		enums.TicketStatusActive.String(), enums.TicketStatusValetAssignedForParking.String(),
		enums.TicketStatusRetrievalRequested.String(), enums.TicketStatusValetAssignedForRetrieval.String(),
		time.Now().UTC(),
		ticketID,
		enums.TicketStatusActive.String(), enums.TicketStatusRetrievalRequested.String(),
	)
	return res.RowsAffected, res.Error
}

// FindByID loads a ticket by id with relations preloaded.
func (r *Repository) FindByID(ctx context.Context, ticketID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Vehicle").
		Preload("Valet").
		First(&ticket, "id = ?", ticketID).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

var inProgressStatuses = []string{
	enums.TicketStatusValetAssignedForParking.String(),
	enums.TicketStatusValetAssignedForRetrieval.String(),
	enums.TicketStatusRetrieving.String(),
}

// CurrentForDriver returns the driver's in-progress job, or ErrRecordNotFound.
func (r *Repository) CurrentForDriver(ctx context.Context, driverID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Vehicle").
		Where("valet_id = ? AND status IN ?", driverID, inProgressStatuses).
		Order("updated_at DESC").
		First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

// AdvanceStatus conditionally moves the driver's job from one status to the
// next. COMPLETED stamps the exit time once. Returns the rows moved.
func (r *Repository) AdvanceStatus(ctx context.Context, driverID, ticketID uuid.UUID, from, to enums.TicketStatus, at time.Time) (int64, error) {
	updates := map[string]any{
		"status":     to.String(),
		"updated_at": at,
	}
	if to == enums.TicketStatusCompleted {
		updates["exit_time"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND valet_id = ? AND status = ?", ticketID, driverID, from.String()).
		Updates(updates)
	return res.RowsAffected, res.Error
}

var historyStatuses = []string{
	enums.TicketStatusParked.String(),
	enums.TicketStatusCompleted.String(),
}

// HistoryForDriver returns the driver's finished work, newest first.
func (r *Repository) HistoryForDriver(ctx context.Context, driverID uuid.UUID) ([]models.Ticket, error) {
	var list []models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Vehicle").
		Where("valet_id = ? AND status IN ?", driverID, historyStatuses).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Assign force-assigns the driver to the ticket conditioned on the observed
// status. Unlike Accept there is no valet-null guard, so a manager may
// reassign a held job. Returns the rows moved.
func (r *Repository) Assign(ctx context.Context, driverID, ticketID uuid.UUID, observed, to enums.TicketStatus, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("id = ? AND status = ?", ticketID, observed.String()).
		Updates(map[string]any{
			"valet_id":   driverID,
			"status":     to.String(),
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}
