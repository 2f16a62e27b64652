package drivers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// Repository handles driver profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to driver profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx persists a new profile using the provided transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, dto CreateProfileDTO) (*models.DriverProfile, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	profile := dto.ToModel()
	if err := tx.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByUserID loads the profile attached to the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateStatus sets the profile status for the given user.
func (r *Repository) UpdateStatus(ctx context.Context, userID uuid.UUID, status enums.DriverStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DriverProfile{}).
		Where("user_id = ?", userID).
		Update("status", status)
	return res.RowsAffected, res.Error
}

// ListJoined returns profiles joined with their accounts, optionally filtered
// by status, newest profile first.
func (r *Repository) ListJoined(ctx context.Context, status *enums.DriverStatus) ([]DriverDTO, error) {
	q := r.db.WithContext(ctx).
		Table("driver_profiles").
		Select(`driver_profiles.user_id,
			driver_profiles.id AS profile_id,
			users.name,
			users.email,
			driver_profiles.status,
			driver_profiles.phone,
			driver_profiles.license_number,
			driver_profiles.created_at,
			driver_profiles.updated_at`).
		Joins("JOIN users ON users.id = driver_profiles.user_id").
		Order("driver_profiles.created_at DESC")
	if status != nil {
		q = q.Where("driver_profiles.status = ?", *status)
	}

	var list []DriverDTO
	if err := q.Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
