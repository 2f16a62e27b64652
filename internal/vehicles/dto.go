package vehicles

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/parkline-app/parkline-backend/pkg/db/models"
)

// VehicleDTO exposes vehicle data in API responses.
type VehicleDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	PlateNumber string    `json:"plate_number"`
	Make        string    `json:"make"`
	Model       string    `json:"model"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateVehicleDTO holds creation-time data for a new vehicle.
type CreateVehicleDTO struct {
	OwnerID     uuid.UUID
	PlateNumber string
	Make        string
	Model       string
	Color       string
}

// FromModel maps the persisted vehicle into a DTO.
func FromModel(m *models.Vehicle) *VehicleDTO {
	if m == nil {
		return nil
	}
	return &VehicleDTO{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		PlateNumber: m.PlateNumber,
		Make:        m.Make,
		Model:       m.Model,
		Color:       m.Color,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO. Plates are stored
// upper-cased so lookups stay case-insensitive.
func (c CreateVehicleDTO) ToModel() *models.Vehicle {
	return &models.Vehicle{
		ID:          uuid.New(),
		OwnerID:     c.OwnerID,
		PlateNumber: strings.ToUpper(strings.TrimSpace(c.PlateNumber)),
		Make:        strings.TrimSpace(c.Make),
		Model:       strings.TrimSpace(c.Model),
		Color:       strings.TrimSpace(c.Color),
	}
}
