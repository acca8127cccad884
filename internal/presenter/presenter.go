// Package presenter computes the advisory price a buyer sees while choosing
// quantity and packaging. Prices it shows are never binding; the cart
// resolves again when the item is added.
package presenter

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/tieredpricing-backend/internal/pricing"
	"github.com/angelmondragon/tieredpricing-backend/pkg/enums"
)

// Input is the variant data a presenter needs.
type Input struct {
	VariantID string
	Currency  string
	Tiers     []pricing.Tier
	Catalog   *decimal.Decimal
	Packaging []PackagingOption
}

type Presenter struct {
	variantID string
	currency  string
	tiers     []pricing.Tier
	catalog   *decimal.Decimal
	options   []PackagingOption
}

func New(in Input) *Presenter {
	tiers := pricing.InCurrency(in.Tiers, in.Currency)
	pricing.SortTiers(tiers)
	return &Presenter{
		variantID: in.VariantID,
		currency:  pricing.NormalizeCurrency(in.Currency),
		tiers:     tiers,
		catalog:   in.Catalog,
		options:   append([]PackagingOption(nil), in.Packaging...),
	}
}

func (p *Presenter) Options() []PackagingOption {
	return append([]PackagingOption(nil), p.options...)
}

func (p *Presenter) Initial() State {
	return Initial(p.options)
}

func (p *Presenter) Select(s State, label string) (State, error) {
	return s.SelectPackaging(p.options, label)
}

// Quote resolves the display price for the state's effective quantity.
func (p *Presenter) Quote(s State) pricing.Quote {
	return pricing.ResolveForDisplay(p.tiers, p.currency, s.EffectiveQuantity(), p.catalog)
}

// Request describes a preview: an optional packaging label, then either a
// piece count or a pack count. Pieces win when both are set.
type Request struct {
	Packaging string
	NoPackage bool
	Quantity  int
	Pieces    int
}

// Apply replays a request onto the initial state.
func (p *Presenter) Apply(req Request) (State, error) {
	s := p.Initial()
	switch {
	case req.NoPackage:
		s = s.ClearPackaging()
	case req.Packaging != "":
		next, err := p.Select(s, req.Packaging)
		if err != nil {
			return s, err
		}
		s = next
	}
	switch {
	case req.Pieces > 0:
		s = s.SetPieces(req.Pieces)
	case req.Quantity > 0:
		s = s.SetQuantity(req.Quantity)
	}
	return s, nil
}

// TierView is the matched band.
type TierView struct {
	MinQuantity int  `json:"min_quantity"`
	MaxQuantity *int `json:"max_quantity"`
}

// View is the serialized preview.
type View struct {
	VariantID         string            `json:"variant_id"`
	CurrencyCode      string            `json:"currency_code"`
	BaseQuantity      int               `json:"base_quantity"`
	Multiplier        int               `json:"multiplier"`
	EffectiveQuantity int               `json:"effective_quantity"`
	Packaging         *PackagingOption  `json:"packaging"`
	PackagingOptions  []PackagingOption `json:"packaging_options"`
	UnitPrice         decimal.Decimal   `json:"unit_price"`
	Total             decimal.Decimal   `json:"total"`
	PriceSource       enums.PriceSource `json:"price_source"`
	Tier              *TierView         `json:"tier,omitempty"`
	Advisory          bool              `json:"advisory"`
}

func (p *Presenter) View(s State) View {
	q := p.Quote(s)
	options := p.Options()
	if options == nil {
		options = []PackagingOption{}
	}
	v := View{
		VariantID:         p.variantID,
		CurrencyCode:      p.currency,
		BaseQuantity:      s.base(),
		Multiplier:        s.Multiplier(),
		EffectiveQuantity: s.EffectiveQuantity(),
		Packaging:         s.Packaging,
		PackagingOptions:  options,
		UnitPrice:         q.Amount,
		Total:             q.Amount.Mul(decimal.NewFromInt(int64(s.EffectiveQuantity()))),
		PriceSource:       q.Source,
		Advisory:          true,
	}
	if q.Tier != nil {
		v.Tier = &TierView{MinQuantity: pricing.EffectiveMin(*q.Tier), MaxQuantity: q.Tier.MaxQuantity}
	}
	return v
}
