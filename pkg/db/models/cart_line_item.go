package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

// CartLineItem persists a line with the unit price fixed at add time.
type CartLineItem struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CartID             uuid.UUID           `gorm:"column:cart_id;type:uuid;not null;index"`
	VariantID          uuid.UUID           `gorm:"column:variant_id;type:uuid;not null"`
	ProductID          uuid.UUID           `gorm:"column:product_id;type:uuid;not null"`
	Title              string              `gorm:"column:title;not null"`
	Quantity           int                 `gorm:"column:quantity;not null"`
	UnitPrice          decimal.Decimal     `gorm:"column:unit_price;type:numeric(20,6);not null"`
	CompareAtUnitPrice decimal.NullDecimal `gorm:"column:compare_at_unit_price;type:numeric(20,6)"`
	Adjustments        decimal.Decimal     `gorm:"column:adjustments;type:numeric(20,6);not null;default:0"`
	IsTieredPrice      bool                `gorm:"column:is_tiered_price;not null;default:false"`
	Metadata           types.Metadata      `gorm:"column:metadata;type:jsonb;serializer:json"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartLineItem) TableName() string { return "cart_line_items" }

func (i *CartLineItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
