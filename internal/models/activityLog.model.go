package models

import (
	"github.com/google/uuid"
)

// ActivityLog records workflow side effects (check-ins, approvals, payment
// link changes). Rows are written best-effort after the primary write; a
// failed log insert never rolls the primary write back.
type ActivityLog struct {
	BaseUUIDModel
	ActorID    *uuid.UUID `gorm:"type:uuid;index:idx_activity_logs_actor" json:"actorId,omitempty"`
	YachtID    *uuid.UUID `gorm:"type:uuid;index:idx_activity_logs_yacht" json:"yachtId,omitempty"`
	EntityType string     `gorm:"type:text;not null"                      json:"entityType"`
	EntityID   *uuid.UUID `gorm:"type:uuid"                               json:"entityId,omitempty"`
	Action     string     `gorm:"type:text;not null"                      json:"action"`
	Detail     string     `gorm:"type:text"                               json:"detail"`

	Actor *User  `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Yacht *Yacht `gorm:"foreignKey:YachtID" json:"yacht,omitempty"`
}
