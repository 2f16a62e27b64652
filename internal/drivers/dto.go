package drivers

import (
	"time"

	"github.com/google/uuid"

	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// DriverDTO joins account and profile data for listings.
type DriverDTO struct {
	UserID        uuid.UUID          `json:"user_id"`
	ProfileID     uuid.UUID          `json:"profile_id"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	Status        enums.DriverStatus `json:"status"`
	Phone         *string            `json:"phone,omitempty"`
	LicenseNumber *string            `json:"license_number,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ProfileDTO exposes the raw onboarding profile.
type ProfileDTO struct {
	ID            uuid.UUID          `json:"id"`
	UserID        uuid.UUID          `json:"user_id"`
	Status        enums.DriverStatus `json:"status"`
	Phone         *string            `json:"phone,omitempty"`
	Address       *string            `json:"address,omitempty"`
	DOB           *string            `json:"dob,omitempty"`
	LicenseNumber *string            `json:"license_number,omitempty"`
	LicenseExpiry *string            `json:"license_expiry,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// CreateProfileDTO holds creation-time data for a driver profile.
type CreateProfileDTO struct {
	UserID        uuid.UUID
	Phone         *string
	Address       *string
	DOB           *string
	LicenseNumber *string
	LicenseExpiry *string
}

// ProfileFromModel maps the persisted profile into a DTO.
func ProfileFromModel(m *models.DriverProfile) *ProfileDTO {
	if m == nil {
		return nil
	}
	return &ProfileDTO{
		ID:            m.ID,
		UserID:        m.UserID,
		Status:        m.Status,
		Phone:         m.Phone,
		Address:       m.Address,
		DOB:           m.DOB,
		LicenseNumber: m.LicenseNumber,
		LicenseExpiry: m.LicenseExpiry,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO.
func (c CreateProfileDTO) ToModel() *models.DriverProfile {
	return &models.DriverProfile{
		ID:            uuid.New(),
		UserID:        c.UserID,
		Status:        enums.DriverStatusPending,
		Phone:         c.Phone,
		Address:       c.Address,
		DOB:           c.DOB,
		LicenseNumber: c.LicenseNumber,
		LicenseExpiry: c.LicenseExpiry,
	}
}
