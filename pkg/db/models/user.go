package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// User represents the canonical identity entity. The core consumes it only as
// an opaque id plus role; credentials live here for the auth surface.
type User struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email         string         `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash  string         `gorm:"column:password_hash;not null" json:"-"`
	Name          string         `gorm:"column:name;not null" json:"name"`
	Role          enums.Role     `gorm:"column:role;type:text;not null;default:'USER'" json:"role"`
	DriverProfile *DriverProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"driver_profile,omitempty"`
	Vehicles      []Vehicle      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
