package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Yacht struct {
	BaseUUIDModel
	Name           string         `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Marina         string         `gorm:"type:text"                      json:"marina"`
	EngineMake     *string        `gorm:"type:text"                      json:"engineMake,omitempty"`
	EngineModel    *string        `gorm:"type:text"                      json:"engineModel,omitempty"`
	GeneratorMake  *string        `gorm:"type:text"                      json:"generatorMake,omitempty"`
	GeneratorModel *string        `gorm:"type:text"                      json:"generatorModel,omitempty"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"                     json:"metadata,omitempty"`
	IsActive       bool           `gorm:"type:bool;default:true"         json:"isActive"`

	Users    []User    `gorm:"foreignKey:YachtID" json:"users,omitempty"`
	Bookings []Booking `gorm:"foreignKey:YachtID" json:"bookings,omitempty"`
}

func (y *Yacht) BeforeCreate(tx *gorm.DB) error {
	if y.Name == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
