package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineDisplay is the price breakdown shown next to a cart line.
type LineDisplay struct {
	UnitAmount      decimal.Decimal `json:"unit_amount"`
	CompareAtAmount decimal.Decimal `json:"compare_at_amount"`
	OriginalTotal   decimal.Decimal `json:"original_total"`
	Total           decimal.Decimal `json:"total"`
	HasDiscount     bool            `json:"has_discount"`
	DiscountPercent int64           `json:"discount_percent"`
}

// LineItemDisplay computes totals for a line. compareAt falls back to unit
// when absent; adjustments are subtracted from the charged total only.
func LineItemDisplay(unit decimal.Decimal, compareAt *decimal.Decimal, qty int, adjustments decimal.Decimal) LineDisplay {
	q := decimal.NewFromInt(int64(qty))
	cmp := unit
	if compareAt != nil {
		cmp = *compareAt
	}

	out := LineDisplay{
		UnitAmount:      unit,
		CompareAtAmount: cmp,
		OriginalTotal:   cmp.Mul(q),
		Total:           unit.Mul(q).Sub(adjustments),
	}
	if out.Total.LessThan(out.OriginalTotal) && out.OriginalTotal.IsPositive() {
		out.HasDiscount = true
		out.DiscountPercent = PercentageDiff(out.OriginalTotal, out.Total)
	}
	return out
}

// PercentageDiff returns round((original-current)/original*100), or 0 when original is zero.
func PercentageDiff(original, current decimal.Decimal) int64 {
	if original.IsZero() {
		return 0
	}
	return original.Sub(current).Div(original).Mul(hundred).Round(0).IntPart()
}

// CatalogFallback returns amount when it is quoted in currency or carries no
// currency at all. A catalog price in another currency is never used.
func CatalogFallback(amount *decimal.Decimal, amountCurrency *string, currency string) *decimal.Decimal {
	if amount == nil {
		return nil
	}
	if amountCurrency != nil {
		code := NormalizeCurrency(*amountCurrency)
		if code != "" && code != NormalizeCurrency(currency) {
			return nil
		}
	}
	return amount
}
