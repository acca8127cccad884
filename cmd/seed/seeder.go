package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/tieredpricing-backend/internal/tiers"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

const demoHandle = "demo-sticky-notes"

type dbClient interface {
	WithTx(context.Context, func(tx *gorm.DB) error) error
}

type tierWriter interface {
	SetTieredPrices(ctx context.Context, input tiers.SetTieredPricesInput) error
}

type demoVariant struct {
	title   string
	sku     string
	catalog string
	bands   [3]string
}

var demoVariants = []demoVariant{
	{title: "Yellow 76x76", sku: "SN-Y-76", catalog: "25", bands: [3]string{"25", "22", "19.5"}},
	{title: "Pastel mix 76x76", sku: "SN-P-76", catalog: "28", bands: [3]string{"28", "24.5", "21"}},
}

type SeederParams struct {
	DB       dbClient
	Tiers    tierWriter
	Logger   *logger.Logger
	Currency string
}

// Seeder loads a demo product with tiered variants for local storefronts.
type Seeder struct {
	db       dbClient
	tiers    tierWriter
	logg     *logger.Logger
	currency string
}

func NewSeeder(p SeederParams) (*Seeder, error) {
	if p.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if p.Tiers == nil {
		return nil, fmt.Errorf("tier writer required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.Currency == "" {
		return nil, fmt.Errorf("currency required")
	}
	return &Seeder{db: p.DB, tiers: p.Tiers, logg: p.Logger, currency: p.Currency}, nil
}

// Run creates the demo catalog when missing and (re)writes its tiers. It is
// safe to run repeatedly.
func (s *Seeder) Run(ctx context.Context) (*models.Product, error) {
	var product models.Product
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Preload("Variants").Where("handle = ?", demoHandle).First(&product).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		product = models.Product{
			Title:  "Sticky notes",
			Handle: demoHandle,
			Metadata: types.Metadata{
				types.PackagingOptionsKey: []any{
					map[string]any{"label": "Bax", "multiplier": 10},
					"Bucata",
				},
			},
		}
		if err := tx.Create(&product).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return fmt.Errorf("demo product %q was created concurrently, run the seed again: %w", demoHandle, err)
			}
			return err
		}
		for _, dv := range demoVariants {
			sku := dv.sku
			currency := s.currency
			variant := models.ProductVariant{
				ProductID:          product.ID,
				Title:              dv.title,
				SKU:                &sku,
				CalculatedAmount:   decimal.NewNullDecimal(decimal.RequireFromString(dv.catalog)),
				CalculatedCurrency: &currency,
			}
			if err := tx.Create(&variant).Error; err != nil {
				return err
			}
			product.Variants = append(product.Variants, variant)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seeding demo product: %w", err)
	}

	for _, variant := range product.Variants {
		bands, ok := bandsFor(variant)
		if !ok {
			continue
		}
		input := tiers.SetTieredPricesInput{
			ProductID:    product.ID,
			VariantID:    variant.ID,
			CurrencyCode: s.currency,
			Price1To9:    decimal.RequireFromString(bands[0]),
			Price10To24:  decimal.RequireFromString(bands[1]),
			Price25Plus:  decimal.RequireFromString(bands[2]),
		}
		if err := s.tiers.SetTieredPrices(ctx, input); err != nil {
			return nil, fmt.Errorf("writing tiers for %s: %w", variant.ID, err)
		}
		s.logg.Info(s.logg.WithVariantID(ctx, variant.ID.String()), "demo tiers written")
	}
	return &product, nil
}

func bandsFor(v models.ProductVariant) ([3]string, bool) {
	for _, dv := range demoVariants {
		if v.SKU != nil && *v.SKU == dv.sku {
			return dv.bands, true
		}
	}
	return [3]string{}, false
}

func variantIDs(p *models.Product) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Variants))
	for _, v := range p.Variants {
		ids = append(ids, v.ID)
	}
	return ids
}
