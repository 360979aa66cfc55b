package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget is a per-yacht yearly budget line.
type Budget struct {
	BaseUUIDModel
	YachtID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_budgets_yacht;uniqueIndex:idx_budgets_yacht_year_category,priority:1" json:"yachtId"`
	Year     int             `gorm:"type:int;not null;uniqueIndex:idx_budgets_yacht_year_category,priority:2"                          json:"year"`
	Category string          `gorm:"type:text;not null;uniqueIndex:idx_budgets_yacht_year_category,priority:3"                         json:"category"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null"   json:"amount"`
	Notes    *string         `gorm:"type:text"                     json:"notes,omitempty"`

	Yacht *Yacht `gorm:"foreignKey:YachtID" json:"yacht,omitempty"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.YachtID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	if b.Year < 2000 || b.Category == "" {
		return gorm.ErrInvalidValue
	}
	return nil
}
