package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking is a scheduled owner trip with a start/end range. Legacy rows
// created before owner accounts existed carry ad-hoc owner names/contacts
// instead of a user reference.
type Booking struct {
	BaseUUIDModel
	YachtID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_bookings_yacht"   json:"yachtId"`
	UserID          *uuid.UUID `gorm:"type:uuid;index:idx_bookings_user"             json:"userId,omitempty"`
	OwnerNames      *string    `gorm:"type:text"                                     json:"ownerNames,omitempty"`
	OwnerContact    *string    `gorm:"type:text"                                     json:"ownerContact,omitempty"`
	StartAt         time.Time  `gorm:"type:timestamp;not null;index:idx_bookings_start" json:"startAt"`
	EndAt           time.Time  `gorm:"type:timestamp;not null"                       json:"endAt"`
	DepartureTime   *string    `gorm:"type:text"                                     json:"departureTime,omitempty"`
	ArrivalTime     *string    `gorm:"type:text"                                     json:"arrivalTime,omitempty"`
	CheckedIn       bool       `gorm:"type:bool;default:false"                       json:"checkedIn"`
	CheckedOut      bool       `gorm:"type:bool;default:false"                       json:"checkedOut"`
	OilChangeNeeded bool       `gorm:"type:bool;default:false"                       json:"oilChangeNeeded"`
	Notes           *string    `gorm:"type:text"                                     json:"notes,omitempty"`

	Yacht *Yacht `gorm:"foreignKey:YachtID" json:"yacht,omitempty"`
	User  *User  `gorm:"foreignKey:UserID"  json:"user,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	return b.validate()
}

func (b *Booking) BeforeUpdate(tx *gorm.DB) error {
	return b.validate()
}

func (b *Booking) validate() error {
	if b.YachtID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if b.StartAt.IsZero() || b.EndAt.IsZero() {
		return gorm.ErrInvalidValue
	}
	if b.EndAt.Before(b.StartAt) {
		return gorm.ErrInvalidValue
	}
	return nil
}

// WithinWindow reports whether now falls inside the booking's trip window.
// Check-in is only permitted inside the window.
func (b *Booking) WithinWindow(now time.Time) bool {
	return !now.Before(b.StartAt) && !now.After(b.EndAt)
}
