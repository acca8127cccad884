package variants

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/tieredpricing-backend/pkg/db/dbtest"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	"github.com/angelmondragon/tieredpricing-backend/pkg/enums"
)

func TestPriceViewCatalogFallbackStaysInCurrency(t *testing.T) {
	db := dbtest.Open(t)
	_, variant := dbtest.SeedVariant(t, db, dbtest.VariantSeed{
		Catalog:         "30",
		CatalogCurrency: "EUR",
	})

	reader, err := NewReader(NewRepository(db))
	require.NoError(t, err)
	view, err := reader.LoadPriceView(context.Background(), variant.ID)
	require.NoError(t, err)
	require.NotNil(t, view.CalculatedCurrency)
	assert.Equal(t, "eur", *view.CalculatedCurrency)

	p := view.Presenter("ron")
	quote := p.Quote(p.Initial().SetQuantity(5))
	assert.Equal(t, enums.PriceSourceNone, quote.Source)
	assert.False(t, quote.Available())

	p = view.Presenter("eur")
	quote = p.Quote(p.Initial().SetQuantity(5))
	assert.Equal(t, enums.PriceSourceCatalog, quote.Source)
	assert.True(t, quote.Amount.Equal(decimal.NewFromInt(30)))
}

func TestPriceViewCatalogWithoutCurrencyFallsBack(t *testing.T) {
	amount := decimal.NewFromInt(30)
	view := BuildPriceView(&models.ProductVariant{
		ID:               uuid.New(),
		ProductID:        uuid.New(),
		CalculatedAmount: decimal.NewNullDecimal(amount),
	}, nil)
	assert.Nil(t, view.CalculatedCurrency)

	p := view.Presenter("ron")
	quote := p.Quote(p.Initial())
	assert.Equal(t, enums.PriceSourceCatalog, quote.Source)
	assert.True(t, quote.Amount.Equal(amount))
}

func TestCatalogAmountIn(t *testing.T) {
	eur := "eur"
	variant := &models.ProductVariant{
		CalculatedAmount:   decimal.NewNullDecimal(decimal.NewFromInt(12)),
		CalculatedCurrency: &eur,
	}

	assert.Nil(t, CatalogAmountIn(variant, "ron"))
	got := CatalogAmountIn(variant, "EUR")
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromInt(12)))
	assert.Nil(t, CatalogAmountIn(nil, "eur"))
}
