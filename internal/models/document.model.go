package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is a stored file attachment (manuals, photos, invoices) addressed
// by a generated storage path with a public URL.
type Document struct {
	BaseUUIDModel
	YachtID      uuid.UUID `gorm:"type:uuid;not null;index:idx_documents_yacht" json:"yachtId"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null"                           json:"uploadedById"`
	Name         string    `gorm:"type:text;not null"                           json:"name"`
	ContentType  string    `gorm:"type:text"                                    json:"contentType"`
	SizeBytes    int64     `gorm:"type:bigint"                                  json:"sizeBytes"`
	StoragePath  string    `gorm:"type:text;not null;uniqueIndex"               json:"-"`
	PublicURL    string    `gorm:"type:text"                                    json:"publicUrl"`

	Yacht      *Yacht `gorm:"foreignKey:YachtID"      json:"yacht,omitempty"`
	UploadedBy *User  `gorm:"foreignKey:UploadedByID" json:"uploadedBy,omitempty"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.YachtID == uuid.Nil || d.UploadedByID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if d.Name == "" || d.StoragePath == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
