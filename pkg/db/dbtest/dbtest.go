// Package dbtest opens throwaway sqlite databases for repository tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

// Open returns an isolated in-memory database with every model migrated.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// Band describes a seeded tier.
type Band struct {
	Currency string
	Amount   string
	Min      *int
	Max      *int
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// StandardBands returns the 1-9, 10-24, 25+ tiers in currency.
func StandardBands(currency, a, b, c string) []Band {
	return []Band{
		{Currency: currency, Amount: a, Min: Int(1), Max: Int(9)},
		{Currency: currency, Amount: b, Min: Int(10), Max: Int(24)},
		{Currency: currency, Amount: c, Min: Int(25)},
	}
}

// VariantSeed controls SeedVariant.
type VariantSeed struct {
	ProductMetadata types.Metadata
	VariantMetadata types.Metadata
	Catalog         string
	CatalogCurrency string
	Bands           []Band
}

// SeedVariant inserts a product with one variant and its tiers.
func SeedVariant(t *testing.T, db *gorm.DB, seed VariantSeed) (models.Product, models.ProductVariant) {
	t.Helper()
	product := models.Product{
		Title:    "Pahare carton 250ml",
		Handle:   "pahare-" + uuid.NewString(),
		Metadata: seed.ProductMetadata,
	}
	require.NoError(t, db.Create(&product).Error)
	variant := SeedSibling(t, db, product.ID, seed)
	return product, variant
}

// SeedSibling adds another variant to an existing product.
func SeedSibling(t *testing.T, db *gorm.DB, productID uuid.UUID, seed VariantSeed) models.ProductVariant {
	t.Helper()
	variant := models.ProductVariant{
		ProductID: productID,
		Title:     "Default",
		Metadata:  seed.VariantMetadata,
	}
	if seed.Catalog != "" {
		variant.CalculatedAmount = decimal.NewNullDecimal(decimal.RequireFromString(seed.Catalog))
	}
	if seed.CatalogCurrency != "" {
		currency := seed.CatalogCurrency
		variant.CalculatedCurrency = &currency
	}
	require.NoError(t, db.Create(&variant).Error)

	for _, band := range seed.Bands {
		price := models.VariantPrice{
			VariantID:    variant.ID,
			CurrencyCode: band.Currency,
			Amount:       decimal.RequireFromString(band.Amount),
			MinQuantity:  band.Min,
			MaxQuantity:  band.Max,
		}
		require.NoError(t, db.Create(&price).Error)
		variant.Prices = append(variant.Prices, price)
	}
	return variant
}
