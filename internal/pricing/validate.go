package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// TierSetError lists every consistency problem found in a tier set.
type TierSetError struct {
	Problems []string
}

func (e *TierSetError) Error() string {
	return "inconsistent price tiers: " + strings.Join(e.Problems, "; ")
}

// ValidateTierSet checks that, per currency, the tiers partition the
// quantities from 1 upward: no gaps, no overlaps, min <= max, at most the
// last tier open-ended and no negative amounts. The input is not reordered.
func ValidateTierSet(tiers []Tier) error {
	byCurrency := map[string][]Tier{}
	for _, t := range tiers {
		code := NormalizeCurrency(t.CurrencyCode)
		byCurrency[code] = append(byCurrency[code], t)
	}

	currencies := make([]string, 0, len(byCurrency))
	for code := range byCurrency {
		currencies = append(currencies, code)
	}
	sort.Strings(currencies)

	var errs error
	for _, code := range currencies {
		group := append([]Tier(nil), byCurrency[code]...)
		SortTiers(group)
		errs = multierr.Append(errs, validateGroup(code, group))
	}
	if errs == nil {
		return nil
	}
	found := multierr.Errors(errs)
	problems := make([]string, 0, len(found))
	for _, err := range found {
		problems = append(problems, err.Error())
	}
	return &TierSetError{Problems: problems}
}

func validateGroup(currency string, group []Tier) error {
	var errs error
	if currency == "" {
		errs = multierr.Append(errs, errors.New("tier without currency code"))
	}
	next := 1
	for i, t := range group {
		lo, hi := EffectiveMin(t), EffectiveMax(t)
		label := fmt.Sprintf("%s %s", currency, bandLabel(t))
		if t.Amount.IsNegative() {
			errs = multierr.Append(errs, errors.New(label+": negative amount"))
		}
		if hi < lo {
			errs = multierr.Append(errs, errors.New(label+": max below min"))
			continue
		}
		switch {
		case lo > next:
			errs = multierr.Append(errs, fmt.Errorf("%s: gap before quantity %d", label, lo))
		case lo < next:
			errs = multierr.Append(errs, fmt.Errorf("%s: overlaps previous tier", label))
		}
		if hi == math.MaxInt {
			if i != len(group)-1 {
				errs = multierr.Append(errs, errors.New(label+": open-ended tier is not last"))
			}
			break
		}
		next = hi + 1
	}
	return errs
}

func bandLabel(t Tier) string {
	if EffectiveMax(t) == math.MaxInt {
		return fmt.Sprintf("[%d+]", EffectiveMin(t))
	}
	return fmt.Sprintf("[%d-%d]", EffectiveMin(t), EffectiveMax(t))
}
