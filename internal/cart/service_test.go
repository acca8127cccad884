package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/tieredpricing-backend/internal/variants"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/dbtest"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/metrics"
	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

func newTestService(t *testing.T, conn *gorm.DB, recorder *metrics.PricingMetrics) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), db.Wrap(conn), variants.NewRepository(conn), recorder, nil)
	require.NoError(t, err)
	return svc
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestAddTieredLineItemUsesTierForQuantity(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{Bands: dbtest.StandardBands("ron", "25", "22", "18")})
	ctx := context.Background()

	cart, err := svc.CreateCart(ctx, " RON ")
	require.NoError(t, err)
	assert.Equal(t, "ron", cart.CurrencyCode)

	cases := []struct {
		qty  int
		want string
	}{
		{1, "25"}, {9, "25"}, {10, "22"}, {24, "22"}, {25, "18"}, {100, "18"},
	}
	for i, tc := range cases {
		updated, err := svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: tc.qty})
		require.NoError(t, err, "qty %d", tc.qty)
		require.Len(t, updated.Items, i+1)
		line := lineWithQuantity(t, updated, tc.qty)
		assert.True(t, line.UnitPrice.Equal(dec(tc.want)), "qty %d: want %s got %s", tc.qty, tc.want, line.UnitPrice)
		assert.True(t, line.IsTieredPrice)
	}
}

func TestAddTieredLineItemComputesDisplayAgainstCatalog(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{
		Catalog: "25",
		Bands:   dbtest.StandardBands("ron", "25", "22", "18"),
	})
	ctx := context.Background()
	cart, err := svc.CreateCart(ctx, "ron")
	require.NoError(t, err)

	updated, err := svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{
		VariantID: variant.ID,
		Quantity:  10,
		Metadata:  types.Metadata{"packaging": "Bax 10"},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)

	line := updated.Items[0]
	require.NotNil(t, line.CompareAtUnitPrice)
	assert.True(t, line.CompareAtUnitPrice.Equal(dec("25")))
	assert.True(t, line.Display.Total.Equal(dec("220")))
	assert.True(t, line.Display.OriginalTotal.Equal(dec("250")))
	assert.True(t, line.Display.HasDiscount)
	assert.EqualValues(t, 12, line.Display.DiscountPercent)
	assert.Equal(t, "Bax 10", line.Metadata["packaging"])
	assert.True(t, updated.Subtotal.Equal(dec("220")))
}

func TestAddTieredLineItemIgnoresForeignCatalogPrice(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{
		Catalog:         "30",
		CatalogCurrency: "eur",
		Bands:           dbtest.StandardBands("ron", "25", "22", "18"),
	})
	ctx := context.Background()
	cart, err := svc.CreateCart(ctx, "ron")
	require.NoError(t, err)

	updated, err := svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: 10})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)

	line := updated.Items[0]
	assert.Nil(t, line.CompareAtUnitPrice)
	assert.False(t, line.Display.HasDiscount)
	assert.True(t, line.Display.Total.Equal(dec("220")))
}

func TestAddTieredLineItemNoPriceWritesNothing(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{
		Catalog: "30",
		Bands:   dbtest.StandardBands("eur", "5", "4", "3"),
	})
	ctx := context.Background()
	cart, err := svc.CreateCart(ctx, "ron")
	require.NoError(t, err)

	_, err = svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: 3})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNoPrice, typed.Code())
	assert.Equal(t, "could not add item to cart", pkgerrors.MetadataFor(typed.Code()).PublicMessage)

	var count int64
	require.NoError(t, conn.Model(&models.CartLineItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAddTieredLineItemGapInTiers(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	bands := []dbtest.Band{
		{Currency: "ron", Amount: "25", Min: dbtest.Int(1), Max: dbtest.Int(9)},
		{Currency: "ron", Amount: "18", Min: dbtest.Int(25)},
	}
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{Bands: bands})
	ctx := context.Background()
	cart, err := svc.CreateCart(ctx, "ron")
	require.NoError(t, err)

	_, err = svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: 12})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNoPrice))
}

func TestAddTieredLineItemOverlapUsesLowestMin(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	bands := []dbtest.Band{
		{Currency: "ron", Amount: "20", Min: dbtest.Int(5), Max: dbtest.Int(15)},
		{Currency: "ron", Amount: "25", Min: dbtest.Int(1), Max: dbtest.Int(9)},
	}
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{Bands: bands})
	ctx := context.Background()
	cart, err := svc.CreateCart(ctx, "ron")
	require.NoError(t, err)

	updated, err := svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: 7})
	require.NoError(t, err)
	assert.True(t, updated.Items[0].UnitPrice.Equal(dec("25")))
}

func TestAddTieredLineItemErrors(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{Bands: dbtest.StandardBands("ron", "25", "22", "18")})
	ctx := context.Background()
	cart, err := svc.CreateCart(ctx, "ron")
	require.NoError(t, err)

	_, err = svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: 0})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "zero quantity: %v", err)

	_, err = svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: -3})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "negative quantity: %v", err)

	_, err = svc.AddTieredLineItem(ctx, uuid.New(), AddLineItemInput{VariantID: variant.ID, Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "missing cart: %v", err)

	_, err = svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: uuid.New(), Quantity: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "missing variant: %v", err)

	got, err := svc.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items)
}

func TestCreateAndGetCart(t *testing.T) {
	conn := dbtest.Open(t)
	svc := newTestService(t, conn, nil)
	ctx := context.Background()

	_, err := svc.CreateCart(ctx, "  ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	created, err := svc.CreateCart(ctx, "EUR")
	require.NoError(t, err)
	got, err := svc.GetCart(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "eur", got.CurrencyCode)
	assert.NotNil(t, got.Items)

	_, err = svc.GetCart(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAddTieredLineItemRecordsResolutions(t *testing.T) {
	conn := dbtest.Open(t)
	reg := prometheus.NewRegistry()
	svc := newTestService(t, conn, metrics.NewPricingMetrics(reg))
	_, variant := dbtest.SeedVariant(t, conn, dbtest.VariantSeed{Bands: dbtest.StandardBands("ron", "25", "22", "18")})
	ctx := context.Background()
	cart, err := svc.CreateCart(ctx, "ron")
	require.NoError(t, err)

	_, err = svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddTieredLineItem(ctx, cart.ID, AddLineItemInput{VariantID: variant.ID, Quantity: 0})
	require.Error(t, err)

	count, err := testutil.GatherAndCount(reg, "price_resolutions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func lineWithQuantity(t *testing.T, cart *CartDTO, qty int) LineItemDTO {
	t.Helper()
	for _, line := range cart.Items {
		if line.Quantity == qty {
			return line
		}
	}
	t.Fatalf("no line with quantity %d", qty)
	return LineItemDTO{}
}

func TestLineTitle(t *testing.T) {
	assert.Equal(t, "Pahare", lineTitle("Pahare", "Default"))
	assert.Equal(t, "Pahare - 250ml", lineTitle("Pahare", "250ml"))
	assert.Equal(t, "250ml", lineTitle("", "250ml"))
}
