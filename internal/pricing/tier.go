// Package pricing holds the quantity-tier resolution shared by the cart
// (authoritative) and the storefront preview (display mirror).
package pricing

import (
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Tier is one quantity band's unit price in one currency.
type Tier struct {
	VariantID    string
	CurrencyCode string
	Amount       decimal.Decimal
	MinQuantity  *int
	MaxQuantity  *int
}

// Band is a quantity range without a price.
type Band struct {
	Min int
	Max *int
}

// StandardBands are the three bands the admin writes per variant.
func StandardBands() []Band {
	nine, twentyFour := 9, 24
	return []Band{
		{Min: 1, Max: &nine},
		{Min: 10, Max: &twentyFour},
		{Min: 25},
	}
}

// NormalizeCurrency lowercases and trims a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// EffectiveMin treats a missing or non-positive lower bound as 1.
func EffectiveMin(t Tier) int {
	if t.MinQuantity == nil || *t.MinQuantity < 1 {
		return 1
	}
	return *t.MinQuantity
}

// EffectiveMax treats a missing or non-positive upper bound as unbounded.
func EffectiveMax(t Tier) int {
	if t.MaxQuantity == nil || *t.MaxQuantity < 1 {
		return math.MaxInt
	}
	return *t.MaxQuantity
}

// Covers reports whether qty falls inside the tier, both bounds inclusive.
func Covers(t Tier, qty int) bool {
	return qty >= EffectiveMin(t) && qty <= EffectiveMax(t)
}

// Matches reports whether t has exactly the bounds of b.
func (b Band) Matches(t Tier) bool {
	if EffectiveMin(t) != b.Min {
		return false
	}
	if b.Max == nil {
		return EffectiveMax(t) == math.MaxInt
	}
	return EffectiveMax(t) == *b.Max
}

// InCurrency returns the tiers priced in currency, preserving order.
func InCurrency(tiers []Tier, currency string) []Tier {
	want := NormalizeCurrency(currency)
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		if NormalizeCurrency(t.CurrencyCode) == want {
			out = append(out, t)
		}
	}
	return out
}

// SortTiers orders tiers ascending by effective lower bound, then upper bound.
// The sort is stable so equal bands keep their relative order.
func SortTiers(tiers []Tier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		mi, mj := EffectiveMin(tiers[i]), EffectiveMin(tiers[j])
		if mi != mj {
			return mi < mj
		}
		return EffectiveMax(tiers[i]) < EffectiveMax(tiers[j])
	})
}
