package tiers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tieredpricing-backend/internal/pricing"
	"github.com/angelmondragon/tieredpricing-backend/internal/variants"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	"github.com/angelmondragon/tieredpricing-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/metrics"
)

// Service writes and lists a variant's quantity tiers.
type Service interface {
	SetTieredPrices(ctx context.Context, input SetTieredPricesInput) error
	ListProductTiers(ctx context.Context, productID uuid.UUID, currency string) (*ProductTiersDTO, error)
}

// Options configures the write behaviour.
type Options struct {
	Policy           enums.WritePolicy
	StrictValidation bool
	DefaultCurrency  string
}

type service struct {
	repo        *variants.Repository
	dbClient    *db.Client
	invalidator variants.Invalidator
	metrics     *metrics.PricingMetrics
	logg        *logger.Logger
	opts        Options
}

// NewService constructs the tier service. invalidator and recorder may be nil.
func NewService(repo *variants.Repository, dbClient *db.Client, invalidator variants.Invalidator, recorder *metrics.PricingMetrics, logg *logger.Logger, opts Options) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("variant repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if opts.Policy == "" {
		opts.Policy = enums.WritePolicyReplaceByShape
	}
	if !opts.Policy.IsValid() {
		return nil, fmt.Errorf("invalid write policy %q", opts.Policy)
	}
	opts.DefaultCurrency = pricing.NormalizeCurrency(opts.DefaultCurrency)
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		invalidator: invalidator,
		metrics:     recorder,
		logg:        logg,
		opts:        opts,
	}, nil
}

// SetTieredPrices replaces the variant's 1-9, 10-24 and 25+ tiers in one currency.
func (s *service) SetTieredPrices(ctx context.Context, input SetTieredPricesInput) error {
	start := time.Now()
	currency := pricing.NormalizeCurrency(input.CurrencyCode)
	if err := validateInput(input, currency); err != nil {
		s.observe(outcomeFor(err), start)
		return err
	}

	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if _, err := txRepo.FindProduct(ctx, input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
		variant, err := txRepo.LockVariant(ctx, input.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load variant")
		}
		if variant.ProductID != input.ProductID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "variant not found for product")
		}

		existing, err := txRepo.ListPrices(ctx, variant.ID, currency)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list prices")
		}
		rows := buildRows(variant.ID, currency, input)

		var kept []models.VariantPrice
		switch s.opts.Policy {
		case enums.WritePolicyReplaceAll:
			if err := txRepo.DeleteAllPrices(ctx, variant.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete prices")
			}
		default:
			var replaced []uuid.UUID
			replaced, kept = splitByShape(existing)
			if err := txRepo.DeletePrices(ctx, replaced); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete prices")
			}
		}

		if s.opts.StrictValidation {
			if err := pricing.ValidateTierSet(variants.Tiers(append(kept, rows...))); err != nil {
				var setErr *pricing.TierSetError
				if errors.As(err, &setErr) {
					return pkgerrors.New(pkgerrors.CodeValidation, "price tiers overlap or leave gaps").
						WithDetails(map[string]any{"tiers": setErr.Problems})
				}
				return err
			}
		}

		if err := txRepo.CreatePrices(ctx, rows); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert prices")
		}
		return nil
	})
	if err != nil {
		s.observe(outcomeFor(err), start)
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set tiered prices")
	}

	s.observe("ok", start)
	s.invalidate(ctx, input.VariantID)
	return nil
}

// ListProductTiers returns each variant's tiers plus the current standard band prices in currency.
func (s *service) ListProductTiers(ctx context.Context, productID uuid.UUID, currency string) (*ProductTiersDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}
	currency = pricing.NormalizeCurrency(currency)
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}

	product, err := s.repo.FindProductWithVariants(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	out := &ProductTiersDTO{
		ProductID:    product.ID,
		Title:        product.Title,
		CurrencyCode: currency,
		Variants:     make([]VariantTiersDTO, 0, len(product.Variants)),
	}
	bands := pricing.StandardBands()
	for _, v := range product.Variants {
		dto := VariantTiersDTO{
			VariantID: v.ID,
			Title:     v.Title,
			SKU:       v.SKU,
			Tiers:     make([]TierDTO, 0, len(v.Prices)),
		}
		for _, p := range v.Prices {
			dto.Tiers = append(dto.Tiers, TierDTO{
				ID:           p.ID,
				CurrencyCode: p.CurrencyCode,
				Amount:       p.Amount,
				MinQuantity:  p.MinQuantity,
				MaxQuantity:  p.MaxQuantity,
			})
			if pricing.NormalizeCurrency(p.CurrencyCode) != currency {
				continue
			}
			tier := variants.Tiers([]models.VariantPrice{p})[0]
			switch {
			case dto.Price1To9 == nil && bands[0].Matches(tier):
				dto.Price1To9 = decimalPtr(p.Amount)
			case dto.Price10To24 == nil && bands[1].Matches(tier):
				dto.Price10To24 = decimalPtr(p.Amount)
			case dto.Price25Plus == nil && bands[2].Matches(tier):
				dto.Price25Plus = decimalPtr(p.Amount)
			}
		}
		out.Variants = append(out.Variants, dto)
	}
	return out, nil
}

func validateInput(input SetTieredPricesInput, currency string) error {
	details := map[string]string{}
	if input.ProductID == uuid.Nil {
		details["product_id"] = "is required"
	}
	if input.VariantID == uuid.Nil {
		details["variant_id"] = "is required"
	}
	if currency == "" {
		details["currency_code"] = "is required"
	}
	for field, amount := range map[string]decimal.Decimal{
		"price_1_9":   input.Price1To9,
		"price_10_24": input.Price10To24,
		"price_25":    input.Price25Plus,
	} {
		if amount.IsNegative() {
			details[field] = "must be >= 0"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid tiered price request").WithDetails(details)
	}
	return nil
}

func buildRows(variantID uuid.UUID, currency string, input SetTieredPricesInput) []models.VariantPrice {
	amounts := []decimal.Decimal{input.Price1To9, input.Price10To24, input.Price25Plus}
	bands := pricing.StandardBands()
	rows := make([]models.VariantPrice, 0, len(bands))
	for i, band := range bands {
		rows = append(rows, models.VariantPrice{
			VariantID:    variantID,
			CurrencyCode: currency,
			Amount:       amounts[i],
			MinQuantity:  intPtr(band.Min),
			MaxQuantity:  copyIntPtr(band.Max),
		})
	}
	return rows
}

// splitByShape separates rows sitting on a standard band from the rest.
func splitByShape(existing []models.VariantPrice) ([]uuid.UUID, []models.VariantPrice) {
	bands := pricing.StandardBands()
	var replaced []uuid.UUID
	var kept []models.VariantPrice
	for _, p := range existing {
		tier := variants.Tiers([]models.VariantPrice{p})[0]
		matched := false
		for _, band := range bands {
			if band.Matches(tier) {
				matched = true
				break
			}
		}
		if matched {
			replaced = append(replaced, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	return replaced, kept
}

func (s *service) invalidate(ctx context.Context, variantID uuid.UUID) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, variantID); err != nil && s.logg != nil {
		ctx = s.logg.WithVariantID(ctx, variantID.String())
		s.logg.Error(ctx, "invalidate price view cache", err)
	}
}

func (s *service) observe(outcome string, start time.Time) {
	s.metrics.ObserveWrite(s.opts.Policy.String(), outcome, time.Since(start))
}

func outcomeFor(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		switch typed.Code() {
		case pkgerrors.CodeValidation:
			return "invalid"
		case pkgerrors.CodeNotFound:
			return "not_found"
		}
	}
	return "error"
}

func intPtr(v int) *int { return &v }

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func decimalPtr(v decimal.Decimal) *decimal.Decimal { return &v }
