package variants

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/tieredpricing-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/redis"
	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

func TestReaderBuildsPriceViewWithSiblingPackaging(t *testing.T) {
	db := dbtest.Open(t)
	product, variant := dbtest.SeedVariant(t, db, dbtest.VariantSeed{
		Catalog: "30",
		Bands:   dbtest.StandardBands("ron", "25", "22", "18"),
	})
	dbtest.SeedSibling(t, db, product.ID, dbtest.VariantSeed{
		VariantMetadata: types.Metadata{types.PackagingOptionsKey: `[{"label":"cutie","multiplier":10}]`},
	})

	reader, err := NewReader(NewRepository(db))
	require.NoError(t, err)

	view, err := reader.LoadPriceView(context.Background(), variant.ID)
	require.NoError(t, err)
	assert.Equal(t, variant.ID.String(), view.VariantID)
	require.NotNil(t, view.CalculatedAmount)
	assert.True(t, view.CalculatedAmount.Equal(decimal.NewFromInt(30)))
	require.Len(t, view.Tiers, 3)
	require.Len(t, view.Packaging, 1)
	assert.Equal(t, 10, view.Packaging[0].Multiplier)

	p := view.Presenter("ron")
	s := p.Initial().SetQuantity(3)
	assert.True(t, p.Quote(s).Amount.Equal(decimal.NewFromInt(18)))
}

func TestReaderMissingVariant(t *testing.T) {
	reader, err := NewReader(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	_, err = reader.LoadPriceView(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

type countingLoader struct {
	calls int
	view  PriceView
}

func (c *countingLoader) LoadPriceView(context.Context, uuid.UUID) (*PriceView, error) {
	c.calls++
	v := c.view
	return &v, nil
}

func TestCachedReaderReadThroughAndInvalidate(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))

	variantID := uuid.New()
	next := &countingLoader{view: PriceView{
		VariantID: variantID.String(),
		Tiers:     []TierRecord{{CurrencyCode: "ron", Amount: decimal.RequireFromString("22.5"), MinQuantity: dbtest.Int(1)}},
	}}
	cached, err := NewCachedReader(next, cache, time.Minute, nil)
	require.NoError(t, err)

	first, err := cached.LoadPriceView(ctx, variantID)
	require.NoError(t, err)
	second, err := cached.LoadPriceView(ctx, variantID)
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
	assert.True(t, first.Tiers[0].Amount.Equal(second.Tiers[0].Amount))
	assert.True(t, mr.Exists(cache.PriceViewKey(variantID.String())))

	require.NoError(t, cached.Invalidate(ctx, variantID))
	_, err = cached.LoadPriceView(ctx, variantID)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCachedReaderFallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	mr.Close()

	next := &countingLoader{view: PriceView{VariantID: "v"}}
	cached, err := NewCachedReader(next, cache, time.Minute, nil)
	require.NoError(t, err)

	view, err := cached.LoadPriceView(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "v", view.VariantID)
	assert.Equal(t, 1, next.calls)
}
