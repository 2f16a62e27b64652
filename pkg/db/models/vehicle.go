package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is owned by exactly one user and referenced by tickets.
type Vehicle struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	PlateNumber string    `gorm:"column:plate_number;type:text;not null;uniqueIndex" json:"plate_number"`
	Make        string    `gorm:"column:make;not null" json:"make"`
	Model       string    `gorm:"column:model;not null" json:"model"`
	Color       string    `gorm:"column:color;not null" json:"color"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
