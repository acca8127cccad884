package variants

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/redis"
)

// PriceViewLoader loads a variant's preview data.
type PriceViewLoader interface {
	LoadPriceView(ctx context.Context, variantID uuid.UUID) (*PriceView, error)
}

// Invalidator drops cached preview data after a tier write.
type Invalidator interface {
	Invalidate(ctx context.Context, variantID uuid.UUID) error
}

// Reader serves price views straight from the database.
type Reader struct {
	repo *Repository
}

func NewReader(repo *Repository) (*Reader, error) {
	if repo == nil {
		return nil, fmt.Errorf("variant repository required")
	}
	return &Reader{repo: repo}, nil
}

func (r *Reader) LoadPriceView(ctx context.Context, variantID uuid.UUID) (*PriceView, error) {
	variant, err := r.repo.FindVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	product, err := r.repo.FindProductWithVariants(ctx, variant.ProductID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	view := BuildPriceView(variant, product)
	return &view, nil
}

// CachedReader is a read-through Redis cache in front of another loader.
// Only the advisory preview path reads through it.
type CachedReader struct {
	next  PriceViewLoader
	cache redis.JSONCache
	ttl   time.Duration
	logg  *logger.Logger
}

func NewCachedReader(next PriceViewLoader, cache redis.JSONCache, ttl time.Duration, logg *logger.Logger) (*CachedReader, error) {
	if next == nil {
		return nil, fmt.Errorf("price view loader required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	return &CachedReader{next: next, cache: cache, ttl: ttl, logg: logg}, nil
}

func (c *CachedReader) LoadPriceView(ctx context.Context, variantID uuid.UUID) (*PriceView, error) {
	key := c.cache.PriceViewKey(variantID.String())

	var cached PriceView
	found, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.warn(ctx, "price view cache read failed", err)
	} else if found {
		return &cached, nil
	}

	view, err := c.next.LoadPriceView(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetJSON(ctx, key, view, c.ttl); err != nil {
		c.warn(ctx, "price view cache write failed", err)
	}
	return view, nil
}

func (c *CachedReader) Invalidate(ctx context.Context, variantID uuid.UUID) error {
	return c.cache.Del(ctx, c.cache.PriceViewKey(variantID.String()))
}

func (c *CachedReader) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithField(ctx, "error", err.Error())
	c.logg.Warn(ctx, msg)
}
