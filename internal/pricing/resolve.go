package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tieredpricing-backend/pkg/enums"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrNoPriceFound    = errors.New("no price tier covers the requested quantity and currency")
)

// match returns the first tier in currency covering qty.
func match(tiers []Tier, currency string, qty int) (Tier, bool) {
	want := NormalizeCurrency(currency)
	for _, t := range tiers {
		if NormalizeCurrency(t.CurrencyCode) != want {
			continue
		}
		if Covers(t, qty) {
			return t, true
		}
	}
	return Tier{}, false
}

// Resolve selects the tier binding for a purchase of qty units. The first
// covering tier in the supplied order wins, so callers sort beforehand when
// the data may overlap. It never falls back to a catalog price.
func Resolve(tiers []Tier, currency string, qty int) (Tier, error) {
	if qty < 1 {
		return Tier{}, ErrInvalidQuantity
	}
	t, ok := match(tiers, currency, qty)
	if !ok {
		return Tier{}, ErrNoPriceFound
	}
	return t, nil
}

// Quote is a display-only price.
type Quote struct {
	Amount   decimal.Decimal
	Quantity int
	Source   enums.PriceSource
	Tier     *Tier
}

// Available reports whether the quote carries any price.
func (q Quote) Available() bool {
	return q.Source != enums.PriceSourceNone
}

// ResolveForDisplay mirrors Resolve for live previews. Quantities below 1 are
// clamped, and when no tier covers the quantity the catalog amount is used.
// The quote has source "none" only when neither is available.
func ResolveForDisplay(tiers []Tier, currency string, qty int, catalog *decimal.Decimal) Quote {
	if qty < 1 {
		qty = 1
	}
	if t, ok := match(tiers, currency, qty); ok {
		tier := t
		return Quote{Amount: t.Amount, Quantity: qty, Source: enums.PriceSourceTier, Tier: &tier}
	}
	if catalog != nil {
		return Quote{Amount: *catalog, Quantity: qty, Source: enums.PriceSourceCatalog}
	}
	return Quote{Quantity: qty, Source: enums.PriceSourceNone}
}
