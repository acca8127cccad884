package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

// ProductVariant is the SKU-level unit tiers are attached to. CalculatedAmount
// is the non-tiered catalog price the storefront falls back to for display.
type ProductVariant struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID          uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	Title              string              `gorm:"column:title;not null"`
	SKU                *string             `gorm:"column:sku"`
	Metadata           types.Metadata      `gorm:"column:metadata;type:jsonb;serializer:json"`
	CalculatedAmount   decimal.NullDecimal `gorm:"column:calculated_amount;type:numeric(20,6)"`
	CalculatedCurrency *string             `gorm:"column:calculated_currency"`
	Prices             []VariantPrice      `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductVariant) TableName() string { return "product_variants" }

func (v *ProductVariant) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
