package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Appointment is a staff-created single-date calendar entry, distinct from a
// Booking. It may link a walk-in repair request.
type Appointment struct {
	BaseUUIDModel
	YachtID         *uuid.UUID `gorm:"type:uuid;index:idx_appointments_yacht"             json:"yachtId,omitempty"`
	ScheduledAt     time.Time  `gorm:"type:timestamp;not null;index:idx_appointments_date" json:"scheduledAt"`
	CustomerName    string     `gorm:"type:text"                                          json:"customerName"`
	CustomerPhone   *string    `gorm:"type:text"                                          json:"customerPhone,omitempty"`
	CustomerEmail   *string    `gorm:"type:text"                                          json:"customerEmail,omitempty"`
	RepairRequestID *uuid.UUID `gorm:"type:uuid;index:idx_appointments_repair"            json:"repairRequestId,omitempty"`
	Notes           *string    `gorm:"type:text"                                          json:"notes,omitempty"`
	CreatedByID     uuid.UUID  `gorm:"type:uuid;not null"                                 json:"createdById"`

	Yacht         *Yacht         `gorm:"foreignKey:YachtID"         json:"yacht,omitempty"`
	RepairRequest *RepairRequest `gorm:"foreignKey:RepairRequestID" json:"repairRequest,omitempty"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ScheduledAt.IsZero() {
		return gorm.ErrInvalidValue
	}
	if a.CreatedByID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return nil
}
