package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RepairStatus string

const (
	RepairStatusPending   RepairStatus = "pending"
	RepairStatusApproved  RepairStatus = "approved"
	RepairStatusRejected  RepairStatus = "rejected"
	RepairStatusCompleted RepairStatus = "completed"
)

func (s RepairStatus) Valid() bool {
	switch s {
	case RepairStatusPending, RepairStatusApproved, RepairStatusRejected, RepairStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo enforces the repair lifecycle:
// pending -> approved|rejected, approved -> completed.
func (s RepairStatus) CanTransitionTo(next RepairStatus) bool {
	switch s {
	case RepairStatusPending:
		return next == RepairStatusApproved || next == RepairStatusRejected
	case RepairStatusApproved:
		return next == RepairStatusCompleted
	}
	return false
}

// RepairRequest belongs to a Yacht or to a walk-in customer/vessel pair.
type RepairRequest struct {
	BaseUUIDModel
	YachtID       *uuid.UUID       `gorm:"type:uuid;index:idx_repair_requests_yacht"   json:"yachtId,omitempty"`
	CustomerName  *string          `gorm:"type:text"                                   json:"customerName,omitempty"`
	VesselName    *string          `gorm:"type:text"                                   json:"vesselName,omitempty"`
	SubmittedByID uuid.UUID        `gorm:"type:uuid;not null;index:idx_repair_requests_submitter" json:"submittedById"`
	MechanicID    *uuid.UUID       `gorm:"type:uuid;index:idx_repair_requests_mechanic" json:"mechanicId,omitempty"`
	Title         string           `gorm:"type:text;not null"                          json:"title"`
	Description   string           `gorm:"type:text"                                   json:"description"`
	Status        RepairStatus     `gorm:"type:text;not null;default:'pending';index:idx_repair_requests_status" json:"status"`
	CostEstimate  *decimal.Decimal `gorm:"type:decimal(10,2)"                          json:"costEstimate,omitempty"`
	ResolvedAt    *time.Time       `gorm:"type:timestamp"                              json:"resolvedAt,omitempty"`
	ResolutionNote *string         `gorm:"type:text"                                   json:"resolutionNote,omitempty"`

	Yacht       *Yacht   `gorm:"foreignKey:YachtID"       json:"yacht,omitempty"`
	SubmittedBy *User    `gorm:"foreignKey:SubmittedByID" json:"submittedBy,omitempty"`
	Mechanic    *User    `gorm:"foreignKey:MechanicID"    json:"mechanic,omitempty"`
	Invoice     *Invoice `gorm:"foreignKey:RepairRequestID" json:"invoice,omitempty"`
}

func (r *RepairRequest) BeforeCreate(tx *gorm.DB) error {
	if r.SubmittedByID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if r.Title == "" {
		return gorm.ErrInvalidValue
	}
	// A request is anchored to a yacht or to a walk-in customer, never neither
	if r.YachtID == nil && (r.CustomerName == nil || *r.CustomerName == "") {
		return gorm.ErrInvalidValue
	}
	if r.Status == "" {
		r.Status = RepairStatusPending
	}
	return nil
}
