package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationKindBooking   NotificationKind = "booking"
	NotificationKindRepair    NotificationKind = "repair"
	NotificationKindInvoice   NotificationKind = "invoice"
	NotificationKindOilChange NotificationKind = "oil_change"
	NotificationKindGeneral   NotificationKind = "general"
)

// Notification rows with a nil recipient are admin notifications visible to
// every fleet-wide role.
type Notification struct {
	BaseUUIDModel
	RecipientID *uuid.UUID       `gorm:"type:uuid;index:idx_notifications_recipient" json:"recipientId,omitempty"`
	YachtID     *uuid.UUID       `gorm:"type:uuid;index:idx_notifications_yacht"     json:"yachtId,omitempty"`
	Kind        NotificationKind `gorm:"type:text;not null;default:'general'"        json:"kind"`
	Title       string           `gorm:"type:text;not null"                          json:"title"`
	Body        string           `gorm:"type:text"                                   json:"body"`
	ReadAt      *time.Time       `gorm:"type:timestamp"                              json:"readAt,omitempty"`

	Recipient *User  `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
	Yacht     *Yacht `gorm:"foreignKey:YachtID"     json:"yacht,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.Title == "" {
		return gorm.ErrInvalidValue
	}
	if n.Kind == "" {
		n.Kind = NotificationKindGeneral
	}
	return nil
}
