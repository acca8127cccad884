package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/tieredpricing-backend/internal/pricing"
	"github.com/angelmondragon/tieredpricing-backend/internal/variants"
	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
	"github.com/angelmondragon/tieredpricing-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tieredpricing-backend/pkg/errors"
	"github.com/angelmondragon/tieredpricing-backend/pkg/logger"
	"github.com/angelmondragon/tieredpricing-backend/pkg/metrics"
)

// Service exposes cart operations priced by quantity tiers.
type Service interface {
	CreateCart(ctx context.Context, currency string) (*CartDTO, error)
	GetCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)
	AddTieredLineItem(ctx context.Context, cartID uuid.UUID, input AddLineItemInput) (*CartDTO, error)
}

type service struct {
	repo     CartRepository
	tx       txRunner
	variants variantLoader
	metrics  *metrics.PricingMetrics
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack. recorder and
// logg may be nil.
func NewService(repo CartRepository, tx txRunner, variantRepo variantLoader, recorder *metrics.PricingMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if variantRepo == nil {
		return nil, fmt.Errorf("variant loader required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		variants: variantRepo,
		metrics:  recorder,
		logg:     logg,
	}, nil
}

func (s *service) CreateCart(ctx context.Context, currency string) (*CartDTO, error) {
	currency = pricing.NormalizeCurrency(currency)
	if currency == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency_code is required").
			WithDetails(map[string]string{"currency_code": "is required"})
	}
	created, err := s.repo.Create(ctx, &models.Cart{CurrencyCode: currency})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return FromModel(created), nil
}

func (s *service) GetCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, s.repo, cartID)
	if err != nil {
		return nil, err
	}
	return FromModel(cart), nil
}

// AddTieredLineItem resolves the unit price for the requested quantity in the
// cart's currency and appends a line at that price. Nothing is written when
// no tier applies.
func (s *service) AddTieredLineItem(ctx context.Context, cartID uuid.UUID, input AddLineItemInput) (*CartDTO, error) {
	if input.Quantity < 1 {
		s.record("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
			WithDetails(map[string]string{"quantity": "must be >= 1"})
	}
	if input.VariantID == uuid.Nil {
		s.record("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant_id is required").
			WithDetails(map[string]string{"variant_id": "is required"})
	}
	if s.logg != nil {
		ctx = s.logg.WithCartID(ctx, cartID.String())
		ctx = s.logg.WithVariantID(ctx, input.VariantID.String())
	}

	cart, err := s.loadCart(ctx, s.repo, cartID)
	if err != nil {
		s.record(outcomeFor(err))
		return nil, err
	}

	variant, err := s.variants.FindVariant(ctx, input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.record("not_found")
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		s.record("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	tiers := variants.Tiers(variant.Prices)
	pricing.SortTiers(tiers)
	tier, err := pricing.Resolve(tiers, cart.CurrencyCode, input.Quantity)
	if err != nil {
		if errors.Is(err, pricing.ErrNoPriceFound) {
			s.record("no_price")
			if s.logg != nil {
				s.logg.Warn(ctx, "no price tier for add to cart")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeNoPrice, err, "no price found for the given quantity and currency").
				WithDetails(map[string]any{
					"variant_id":    input.VariantID,
					"currency_code": cart.CurrencyCode,
					"quantity":      input.Quantity,
				})
		}
		s.record("invalid")
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid quantity")
	}

	title := variant.Title
	if product, err := s.variants.FindProduct(ctx, variant.ProductID); err == nil {
		title = lineTitle(product.Title, variant.Title)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.record("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	item := &models.CartLineItem{
		CartID:        cart.ID,
		VariantID:     variant.ID,
		ProductID:     variant.ProductID,
		Title:         title,
		Quantity:      input.Quantity,
		UnitPrice:     tier.Amount,
		IsTieredPrice: true,
		Metadata:      input.Metadata.Clone(),
	}
	if catalog := variants.CatalogAmountIn(variant, cart.CurrencyCode); catalog != nil {
		item.CompareAtUnitPrice.Decimal = *catalog
		item.CompareAtUnitPrice.Valid = true
	}

	var updated *models.Cart
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.AppendItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert line item")
		}
		if err := txRepo.Touch(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
		}
		reloaded, err := s.loadCart(ctx, txRepo, cart.ID)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		s.record("error")
		if s.logg != nil {
			s.logg.Error(ctx, "add tiered line item", err)
		}
		return nil, err
	}

	s.record(enums.PriceSourceTier.String())
	if s.logg != nil {
		s.logg.Info(ctx, "tiered line item added")
	}
	return FromModel(updated), nil
}

func (s *service) loadCart(ctx context.Context, repo CartRepository, cartID uuid.UUID) (*models.Cart, error) {
	if cartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	cart, err := repo.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) record(outcome string) {
	s.metrics.IncResolution(metrics.PathCart, outcome)
}

func lineTitle(product, variant string) string {
	product = strings.TrimSpace(product)
	variant = strings.TrimSpace(variant)
	switch {
	case product == "":
		return variant
	case variant == "" || strings.EqualFold(variant, "default"):
		return product
	default:
		return product + " - " + variant
	}
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
