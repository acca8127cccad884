package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VariantPrice is one quantity band's price for a variant in one currency.
// Nil bounds mean "from 1" and "no upper limit".
type VariantPrice struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VariantID    uuid.UUID       `gorm:"column:variant_id;type:uuid;not null;index:idx_variant_prices_variant_currency"`
	CurrencyCode string          `gorm:"column:currency_code;not null;index:idx_variant_prices_variant_currency"`
	Amount       decimal.Decimal `gorm:"column:amount;type:numeric(20,6);not null"`
	MinQuantity  *int            `gorm:"column:min_quantity"`
	MaxQuantity  *int            `gorm:"column:max_quantity"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (VariantPrice) TableName() string { return "variant_prices" }

func (p *VariantPrice) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
