package tickets

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parkline-app/parkline-backend/internal/users"
	"github.com/parkline-app/parkline-backend/internal/vehicles"
	"github.com/parkline-app/parkline-backend/pkg/db/models"
	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// TicketDTO exposes ticket data in API responses.
type TicketDTO struct {
	ID         uuid.UUID            `json:"id"`
	UserID     uuid.UUID            `json:"user_id"`
	VehicleID  uuid.UUID            `json:"vehicle_id"`
	ValetID    *uuid.UUID           `json:"valet_id,omitempty"`
	GateID     string               `json:"gate_id"`
	SpotNumber *string              `json:"spot_number,omitempty"`
	Status     enums.TicketStatus   `json:"status"`
	Amount     decimal.Decimal      `json:"amount"`
	Location   string               `json:"location"`
	Vehicle    *vehicles.VehicleDTO `json:"vehicle,omitempty"`
	User       *users.UserDTO       `json:"user,omitempty"`
	Valet      *users.UserDTO       `json:"valet,omitempty"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
	ExitTime   *time.Time           `json:"exit_time,omitempty"`
}

// CreateTicketDTO holds creation-time data for a new ticket.
type CreateTicketDTO struct {
	UserID     uuid.UUID
	VehicleID  uuid.UUID
	GateID     string
	SpotNumber string
	Amount     decimal.Decimal
	Location   string
}

// FromModel maps the persisted ticket into a DTO, carrying any preloaded
// relations.
func FromModel(m *models.Ticket) *TicketDTO {
	if m == nil {
		return nil
	}
	dto := &TicketDTO{
		ID:         m.ID,
		UserID:     m.UserID,
		VehicleID:  m.VehicleID,
		ValetID:    m.ValetID,
		GateID:     m.GateID,
		SpotNumber: m.SpotNumber,
		Status:     m.Status,
		Amount:     m.Amount,
		Location:   m.Location,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ExitTime:   m.ExitTime,
	}
	if m.Vehicle != nil {
		dto.Vehicle = vehicles.FromModel(m.Vehicle)
	}
	if m.User != nil {
		dto.User = users.FromModel(m.User)
	}
	if m.Valet != nil {
		dto.Valet = users.FromModel(m.Valet)
	}
	return dto
}

// FromModels maps a slice of tickets.
func FromModels(list []models.Ticket) []TicketDTO {
	out := make([]TicketDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// ToModel prepares the GORM model from creation DTO.
func (c CreateTicketDTO) ToModel() *models.Ticket {
	spot := c.SpotNumber
	return &models.Ticket{
		ID:         uuid.New(),
		UserID:     c.UserID,
		VehicleID:  c.VehicleID,
		GateID:     c.GateID,
		SpotNumber: &spot,
		Status:     enums.TicketStatusActive,
		Amount:     c.Amount,
		Location:   c.Location,
	}
}
