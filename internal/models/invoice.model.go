package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusFailed  InvoiceStatus = "failed"
)

// Invoice belongs to exactly one completed RepairRequest. Email engagement
// timestamps are filled in from provider webhooks; EmailEvents keeps the raw
// webhook payloads for auditing.
type Invoice struct {
	BaseUUIDModel
	RepairRequestID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"           json:"repairRequestId"`
	YachtID         *uuid.UUID      `gorm:"type:uuid;index:idx_invoices_yacht"       json:"yachtId,omitempty"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null"              json:"amount"`
	Status          InvoiceStatus   `gorm:"type:text;not null;default:'pending';index:idx_invoices_status" json:"status"`
	PaymentLinkID   *string         `gorm:"type:text"                                json:"paymentLinkId,omitempty"`
	PaymentLinkURL  *string         `gorm:"type:text"                                json:"paymentLinkUrl,omitempty"`
	SentAt          *time.Time      `gorm:"type:timestamp"                           json:"sentAt,omitempty"`
	DeliveredAt     *time.Time      `gorm:"type:timestamp"                           json:"deliveredAt,omitempty"`
	OpenedAt        *time.Time      `gorm:"type:timestamp"                           json:"openedAt,omitempty"`
	ClickedAt       *time.Time      `gorm:"type:timestamp"                           json:"clickedAt,omitempty"`
	PaidAt          *time.Time      `gorm:"type:timestamp"                           json:"paidAt,omitempty"`
	EmailEvents     datatypes.JSON  `gorm:"type:jsonb"                               json:"emailEvents,omitempty"`

	RepairRequest *RepairRequest `gorm:"foreignKey:RepairRequestID" json:"repairRequest,omitempty"`
	Yacht         *Yacht         `gorm:"foreignKey:YachtID"         json:"yacht,omitempty"`
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.RepairRequestID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if i.Amount.IsNegative() {
		return gorm.ErrInvalidValue
	}
	if i.Status == "" {
		i.Status = InvoiceStatusPending
	}
	return nil
}
