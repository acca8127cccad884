package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tieredpricing-backend/internal/pricing"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

// AddLineItemInput is the add-to-cart payload.
type AddLineItemInput struct {
	VariantID uuid.UUID
	Quantity  int
	Metadata  types.Metadata
}

// LineItemDTO is a cart line with its display totals.
type LineItemDTO struct {
	ID                 uuid.UUID           `json:"id"`
	VariantID          uuid.UUID           `json:"variant_id"`
	ProductID          uuid.UUID           `json:"product_id"`
	Title              string              `json:"title"`
	Quantity           int                 `json:"quantity"`
	UnitPrice          decimal.Decimal     `json:"unit_price"`
	CompareAtUnitPrice *decimal.Decimal    `json:"compare_at_unit_price"`
	IsTieredPrice      bool                `json:"is_tiered_price"`
	Metadata           types.Metadata      `json:"metadata,omitempty"`
	Display            pricing.LineDisplay `json:"display"`
}

// CartDTO is the cart as returned to the storefront.
type CartDTO struct {
	ID           uuid.UUID       `json:"id"`
	CurrencyCode string          `json:"currency_code"`
	Items        []LineItemDTO   `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FromModel maps a cart and its lines, computing display totals per line.
func FromModel(cart *models.Cart) *CartDTO {
	out := &CartDTO{
		ID:           cart.ID,
		CurrencyCode: cart.CurrencyCode,
		Items:        make([]LineItemDTO, 0, len(cart.Items)),
		Subtotal:     decimal.Zero,
		CreatedAt:    cart.CreatedAt,
		UpdatedAt:    cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		var compareAt *decimal.Decimal
		if item.CompareAtUnitPrice.Valid {
			v := item.CompareAtUnitPrice.Decimal
			compareAt = &v
		}
		display := pricing.LineItemDisplay(item.UnitPrice, compareAt, item.Quantity, item.Adjustments)
		out.Items = append(out.Items, LineItemDTO{
			ID:                 item.ID,
			VariantID:          item.VariantID,
			ProductID:          item.ProductID,
			Title:              item.Title,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			CompareAtUnitPrice: compareAt,
			IsTieredPrice:      item.IsTieredPrice,
			Metadata:           item.Metadata,
			Display:            display,
		})
		out.Subtotal = out.Subtotal.Add(display.Total)
	}
	return out
}
