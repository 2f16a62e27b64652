package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// DriverProfile holds valet onboarding state, 1:1 with a DRIVER user.
// Drivers see no jobs until a super admin moves the profile to ACTIVE.
type DriverProfile struct {
	ID            uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID          `gorm:"column:user_id;type:uuid;not null;uniqueIndex" json:"user_id"`
	Status        enums.DriverStatus `gorm:"column:status;type:text;not null;default:'PENDING'" json:"status"`
	Phone         *string            `gorm:"column:phone" json:"phone,omitempty"`
	Address       *string            `gorm:"column:address" json:"address,omitempty"`
	DOB           *string            `gorm:"column:dob" json:"dob,omitempty"`
	LicenseNumber *string            `gorm:"column:license_number" json:"license_number,omitempty"`
	LicenseExpiry *string            `gorm:"column:license_expiry" json:"license_expiry,omitempty"`
	Photo         *string            `gorm:"column:photo" json:"photo,omitempty"`
	LicensePhoto  *string            `gorm:"column:license_photo" json:"license_photo,omitempty"`
	CreatedAt     time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
