// Package variants is the read model for variants and their price tiers.
package variants

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tieredpricing-backend/internal/presenter"
	"github.com/angelmondragon/tieredpricing-backend/internal/pricing"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

// Tiers converts persisted prices into resolver tiers, keeping their order.
func Tiers(prices []models.VariantPrice) []pricing.Tier {
	out := make([]pricing.Tier, 0, len(prices))
	for _, p := range prices {
		out = append(out, pricing.Tier{
			VariantID:    p.VariantID.String(),
			CurrencyCode: p.CurrencyCode,
			Amount:       p.Amount,
			MinQuantity:  copyIntPtr(p.MinQuantity),
			MaxQuantity:  copyIntPtr(p.MaxQuantity),
		})
	}
	return out
}

// CatalogAmount returns the variant's non-tiered price, if any.
func CatalogAmount(v *models.ProductVariant) *decimal.Decimal {
	if v == nil || !v.CalculatedAmount.Valid {
		return nil
	}
	amount := v.CalculatedAmount.Decimal
	return &amount
}

// CatalogAmountIn returns the catalog price only when it may stand in for a
// price in currency.
func CatalogAmountIn(v *models.ProductVariant, currency string) *decimal.Decimal {
	if v == nil {
		return nil
	}
	return pricing.CatalogFallback(CatalogAmount(v), v.CalculatedCurrency, currency)
}

// TierRecord is the cached form of a price tier.
type TierRecord struct {
	CurrencyCode string          `json:"currency_code"`
	Amount       decimal.Decimal `json:"amount"`
	MinQuantity  *int            `json:"min_quantity"`
	MaxQuantity  *int            `json:"max_quantity"`
}

// PriceView is everything the storefront preview needs about one variant.
type PriceView struct {
	VariantID          string                      `json:"variant_id"`
	ProductID          string                      `json:"product_id"`
	Title              string                      `json:"title"`
	CalculatedAmount   *decimal.Decimal            `json:"calculated_amount"`
	CalculatedCurrency *string                     `json:"calculated_currency,omitempty"`
	Tiers              []TierRecord                `json:"tiers"`
	Packaging          []presenter.PackagingOption `json:"packaging_options"`
}

// BuildPriceView assembles the preview data. The product's variants, when
// loaded, serve as the sibling fallback for packaging discovery.
func BuildPriceView(variant *models.ProductVariant, product *models.Product) PriceView {
	view := PriceView{
		VariantID:        variant.ID.String(),
		ProductID:        variant.ProductID.String(),
		Title:            variant.Title,
		CalculatedAmount: CatalogAmount(variant),
		Tiers:            make([]TierRecord, 0, len(variant.Prices)),
	}
	if variant.CalculatedCurrency != nil {
		code := pricing.NormalizeCurrency(*variant.CalculatedCurrency)
		view.CalculatedCurrency = &code
	}
	for _, p := range variant.Prices {
		view.Tiers = append(view.Tiers, TierRecord{
			CurrencyCode: p.CurrencyCode,
			Amount:       p.Amount,
			MinQuantity:  copyIntPtr(p.MinQuantity),
			MaxQuantity:  copyIntPtr(p.MaxQuantity),
		})
	}

	var productMeta types.Metadata
	var siblings []types.Metadata
	if product != nil {
		productMeta = product.Metadata
		for _, sibling := range product.Variants {
			if sibling.ID == variant.ID {
				continue
			}
			siblings = append(siblings, sibling.Metadata)
		}
	}
	view.Packaging = presenter.DiscoverPackaging(variant.Metadata, productMeta, siblings)
	return view
}

// PricingTiers converts the cached tiers back into resolver tiers.
func (v PriceView) PricingTiers() []pricing.Tier {
	out := make([]pricing.Tier, 0, len(v.Tiers))
	for _, t := range v.Tiers {
		out = append(out, pricing.Tier{
			VariantID:    v.VariantID,
			CurrencyCode: t.CurrencyCode,
			Amount:       t.Amount,
			MinQuantity:  copyIntPtr(t.MinQuantity),
			MaxQuantity:  copyIntPtr(t.MaxQuantity),
		})
	}
	return out
}

// Presenter builds a display presenter for currency. The catalog price is
// offered as a fallback only when it is quoted in the same currency.
func (v PriceView) Presenter(currency string) *presenter.Presenter {
	return presenter.New(presenter.Input{
		VariantID: v.VariantID,
		Currency:  currency,
		Tiers:     v.PricingTiers(),
		Catalog:   pricing.CatalogFallback(v.CalculatedAmount, v.CalculatedCurrency, currency),
		Packaging: v.Packaging,
	})
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
