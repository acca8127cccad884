package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tieredpricing-backend/pkg/enums"
)

func intPtr(v int) *int { return &v }

func tier(currency, amount string, min, max *int) Tier {
	return Tier{CurrencyCode: currency, Amount: decimal.RequireFromString(amount), MinQuantity: min, MaxQuantity: max}
}

func standardRON() []Tier {
	return []Tier{
		tier("ron", "25", intPtr(1), intPtr(9)),
		tier("ron", "22", intPtr(10), intPtr(24)),
		tier("ron", "18", intPtr(25), nil),
	}
}

func TestResolveStandardBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		qty  int
		want string
	}{
		{qty: 1, want: "25"},
		{qty: 9, want: "25"},
		{qty: 10, want: "22"},
		{qty: 24, want: "22"},
		{qty: 25, want: "18"},
		{qty: 100, want: "18"},
		{qty: 1_000_000, want: "18"},
	}

	for _, tt := range tests {
		got, err := Resolve(standardRON(), "ron", tt.qty)
		if err != nil {
			t.Fatalf("qty %d: unexpected error %v", tt.qty, err)
		}
		if !got.Amount.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("qty %d: expected %s got %s", tt.qty, tt.want, got.Amount)
		}
	}
}

func TestResolveBoundaryInclusivity(t *testing.T) {
	t.Parallel()

	tiers := []Tier{tier("ron", "22", intPtr(10), intPtr(24))}
	for _, qty := range []int{10, 24} {
		if _, err := Resolve(tiers, "ron", qty); err != nil {
			t.Fatalf("qty %d should match [10-24]: %v", qty, err)
		}
	}
	for _, qty := range []int{9, 25} {
		if _, err := Resolve(tiers, "ron", qty); !errors.Is(err, ErrNoPriceFound) {
			t.Fatalf("qty %d should not match [10-24], got %v", qty, err)
		}
	}
}

func TestResolveCurrencyScoping(t *testing.T) {
	t.Parallel()

	tiers := []Tier{tier("eur", "5", intPtr(1), nil)}
	if _, err := Resolve(tiers, "ron", 3); !errors.Is(err, ErrNoPriceFound) {
		t.Fatalf("expected eur tier to be invisible to ron lookup, got %v", err)
	}

	tiers = append(tiers, tier("RON", "7", intPtr(1), nil))
	got, err := Resolve(tiers, " ron ", 3)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(7)) {
		t.Fatalf("expected ron tier amount 7, got %s", got.Amount)
	}
}

func TestResolveRejectsQuantityBelowOne(t *testing.T) {
	t.Parallel()

	for _, qty := range []int{0, -3} {
		if _, err := Resolve(standardRON(), "ron", qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("qty %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
}

func TestResolveNoTiers(t *testing.T) {
	t.Parallel()

	if _, err := Resolve(nil, "ron", 5); !errors.Is(err, ErrNoPriceFound) {
		t.Fatalf("expected ErrNoPriceFound, got %v", err)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	t.Parallel()

	overlapping := []Tier{
		tier("ron", "20", intPtr(5), intPtr(15)),
		tier("ron", "25", intPtr(1), intPtr(9)),
	}
	got, err := Resolve(overlapping, "ron", 7)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected first listed tier to win, got %s", got.Amount)
	}

	SortTiers(overlapping)
	got, err = Resolve(overlapping, "ron", 7)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected lowest min to win after sort, got %s", got.Amount)
	}
}

func TestResolveTreatsZeroBoundsAsUnbounded(t *testing.T) {
	t.Parallel()

	tiers := []Tier{tier("ron", "11", intPtr(0), intPtr(0))}
	for _, qty := range []int{1, 50} {
		if _, err := Resolve(tiers, "ron", qty); err != nil {
			t.Fatalf("qty %d: zero bounds should be open, got %v", qty, err)
		}
	}
}

func TestResolveKeepsStoredPrecision(t *testing.T) {
	t.Parallel()

	tiers := []Tier{tier("ron", "12.345678", nil, nil)}
	got, err := Resolve(tiers, "ron", 2)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.Amount.String() != "12.345678" {
		t.Fatalf("expected amount untouched, got %s", got.Amount)
	}
}

func TestResolveAgreesWithLinearScan(t *testing.T) {
	t.Parallel()

	tiers := append(standardRON(), tier("eur", "3", intPtr(1), nil))
	for qty := 1; qty <= 200; qty++ {
		var want *Tier
		for i := range tiers {
			tr := tiers[i]
			if tr.CurrencyCode == "ron" && qty >= EffectiveMin(tr) && qty <= EffectiveMax(tr) {
				want = &tiers[i]
				break
			}
		}
		got, err := Resolve(tiers, "ron", qty)
		if want == nil {
			if !errors.Is(err, ErrNoPriceFound) {
				t.Fatalf("qty %d: expected no price, got %v", qty, err)
			}
			continue
		}
		if err != nil || !got.Amount.Equal(want.Amount) {
			t.Fatalf("qty %d: expected %s, got %s (%v)", qty, want.Amount, got.Amount, err)
		}
	}
}

func TestResolveForDisplay(t *testing.T) {
	t.Parallel()

	catalog := decimal.NewFromInt(30)

	q := ResolveForDisplay(standardRON(), "ron", 10, &catalog)
	if q.Source != enums.PriceSourceTier || !q.Amount.Equal(decimal.NewFromInt(22)) {
		t.Fatalf("expected tier price 22, got %s from %s", q.Amount, q.Source)
	}
	if q.Tier == nil || *q.Tier.MinQuantity != 10 {
		t.Fatalf("expected matched tier to be returned")
	}

	q = ResolveForDisplay(nil, "ron", 5, &catalog)
	if q.Source != enums.PriceSourceCatalog || !q.Amount.Equal(catalog) {
		t.Fatalf("expected catalog fallback 30, got %s from %s", q.Amount, q.Source)
	}

	eurOnly := []Tier{tier("eur", "4", intPtr(1), nil)}
	q = ResolveForDisplay(eurOnly, "ron", 5, &catalog)
	if q.Source != enums.PriceSourceCatalog {
		t.Fatalf("expected catalog fallback when currency has no tiers, got %s", q.Source)
	}

	q = ResolveForDisplay(nil, "ron", 5, nil)
	if q.Available() {
		t.Fatalf("expected no price without tiers or catalog")
	}

	q = ResolveForDisplay(standardRON(), "ron", 0, nil)
	if q.Quantity != 1 || !q.Amount.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected quantity clamped to 1, got qty %d amount %s", q.Quantity, q.Amount)
	}
}

func TestAuthoritativeAndDisplayDivergeOnlyOnFallback(t *testing.T) {
	t.Parallel()

	catalog := decimal.NewFromInt(30)
	if _, err := Resolve(nil, "ron", 5); !errors.Is(err, ErrNoPriceFound) {
		t.Fatalf("authoritative path must not fall back, got %v", err)
	}
	if q := ResolveForDisplay(nil, "ron", 5, &catalog); !q.Amount.Equal(catalog) {
		t.Fatalf("display path should show catalog price, got %s", q.Amount)
	}

	for qty := 1; qty <= 60; qty++ {
		auth, err := Resolve(standardRON(), "ron", qty)
		if err != nil {
			t.Fatalf("qty %d: unexpected error %v", qty, err)
		}
		disp := ResolveForDisplay(standardRON(), "ron", qty, &catalog)
		if !auth.Amount.Equal(disp.Amount) {
			t.Fatalf("qty %d: authoritative %s and display %s disagree", qty, auth.Amount, disp.Amount)
		}
	}
}
