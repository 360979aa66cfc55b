package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is an owner/staff message scoped to a single yacht's thread.
type ChatMessage struct {
	BaseUUIDModel
	YachtID  uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_messages_yacht" json:"yachtId"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"                               json:"authorId"`
	Body     string    `gorm:"type:text;not null"                               json:"body"`

	Yacht  *Yacht `gorm:"foreignKey:YachtID"  json:"yacht,omitempty"`
	Author *User  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.YachtID == uuid.Nil || m.AuthorID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if m.Body == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
