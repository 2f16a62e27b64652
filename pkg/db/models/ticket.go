package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/parkline-app/parkline-backend/pkg/enums"
)

// Ticket is one valet parking session for a vehicle. The spot number is held
// exclusively while the ticket is in an occupying status; the valet reference
// is set only while a driver is working the ticket and is cleared when a
// parked ticket re-enters the retrieval pool.
//
// Exclusivity is enforced by partial unique indexes on (spot_number) and
// (vehicle_id) over non-terminal statuses, not by application reads.
type Ticket struct {
	ID         uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	VehicleID  uuid.UUID          `gorm:"column:vehicle_id;type:uuid;not null;index" json:"vehicle_id"`
	ValetID    *uuid.UUID         `gorm:"column:valet_id;type:uuid;index" json:"valet_id,omitempty"`
	GateID     string             `gorm:"column:gate_id;not null" json:"gate_id"`
	SpotNumber *string            `gorm:"column:spot_number" json:"spot_number,omitempty"`
	Status     enums.TicketStatus `gorm:"column:status;type:text;not null;default:'ACTIVE'" json:"status"`
	Amount     decimal.Decimal    `gorm:"column:amount;type:numeric(10,2);not null" json:"amount"`
	Location   string             `gorm:"column:location;not null" json:"location"`
	User       *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Vehicle    *Vehicle           `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	Valet      *User              `gorm:"foreignKey:ValetID" json:"valet,omitempty"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	ExitTime   *time.Time         `gorm:"column:exit_time" json:"exit_time,omitempty"`
}
