package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/pkg/db/models"
)

// Repository runs the read-only aggregate queries behind the dashboards.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to reporting queries.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountByStatuses counts the site's tickets currently in any of the statuses.
func (r *Repository) CountByStatuses(ctx context.Context, location string, statuses []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("location = ? AND status IN ?", location, statuses).
		Count(&count).Error
	return count, err
}

// CountCreatedSince counts the site's tickets created at or after the cutoff.
func (r *Repository) CountCreatedSince(ctx context.Context, location string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("location = ? AND created_at >= ?", location, since).
		Count(&count).Error
	return count, err
}

// CountAll counts every ticket ever issued for the site.
func (r *Repository) CountAll(ctx context.Context, location string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("location = ?", location).
		Count(&count).Error
	return count, err
}

// SumCompletedAmount sums the amount of COMPLETED tickets whose exit time is
// at or after the cutoff. A zero cutoff sums all completed revenue.
func (r *Repository) SumCompletedAmount(ctx context.Context, location string, since time.Time) (decimal.Decimal, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Ticket{}).
		Where("location = ? AND status = ?", location, "COMPLETED")
	if !since.IsZero() {
		q = q.Where("exit_time >= ?", since)
	}

	var raw struct {
		Total decimal.Decimal
	}
	if err := q.Select("COALESCE(SUM(amount), 0) AS total").Scan(&raw).Error; err != nil {
		return decimal.Zero, err
	}
	return raw.Total, nil
}

// Recent returns the site's latest tickets by updated_at with relations.
func (r *Repository) Recent(ctx context.Context, location string, limit int) ([]models.Ticket, error) {
	var list []models.Ticket
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Vehicle").
		Preload("Valet").
		Where("location = ?", location).
		Order("updated_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
