package tiers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetTieredPricesInput carries the three admin-authored band prices.
type SetTieredPricesInput struct {
	ProductID    uuid.UUID
	VariantID    uuid.UUID
	CurrencyCode string
	Price1To9    decimal.Decimal
	Price10To24  decimal.Decimal
	Price25Plus  decimal.Decimal
}

// TierDTO is a persisted tier as shown to the admin.
type TierDTO struct {
	ID           uuid.UUID       `json:"id"`
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
	MinQuantity  *int            `json:"min_quantity"`
	MaxQuantity  *int            `json:"max_quantity"`
}

// VariantTiersDTO prefills the admin form for one variant.
type VariantTiersDTO struct {
	VariantID   uuid.UUID        `json:"variant_id"`
	Title       string           `json:"title"`
	SKU         *string          `json:"sku"`
	Price1To9   *decimal.Decimal `json:"price_1_9"`
	Price10To24 *decimal.Decimal `json:"price_10_24"`
	Price25Plus *decimal.Decimal `json:"price_25"`
	Tiers       []TierDTO        `json:"prices"`
}

// ProductTiersDTO lists a product's variants with their tiers.
type ProductTiersDTO struct {
	ProductID    uuid.UUID         `json:"product_id"`
	Title        string            `json:"title"`
	CurrencyCode string            `json:"currency_code"`
	Variants     []VariantTiersDTO `json:"variants"`
}
