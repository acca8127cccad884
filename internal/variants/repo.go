package variants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/tieredpricing-backend/pkg/db/models"
)

// tierOrder lists prices the way the resolver expects: lowest band first,
// older rows before newer ones when bands collide.
const tierOrder = "COALESCE(min_quantity, 1) ASC, created_at ASC, id ASC"

func orderedPrices(db *gorm.DB) *gorm.DB {
	return db.Order(tierOrder)
}

// Repository reads variants with their price tiers and rewrites tiers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindVariant loads a variant and its full tier list.
func (r *Repository) FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).
		Preload("Prices", orderedPrices).
		First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// LockVariant loads the variant row without tiers. On postgres the row is
// locked FOR UPDATE so concurrent tier writes for one variant serialize.
func (r *Repository) LockVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	q := r.db.WithContext(ctx)
	if q.Dialector != nil && q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var variant models.ProductVariant
	if err := q.First(&variant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindProduct loads a product without associations.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductWithVariants loads a product, its variants and their tiers.
func (r *Repository) FindProductWithVariants(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Variants.Prices", orderedPrices).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListPrices returns the variant's tiers, optionally restricted to one currency.
func (r *Repository) ListPrices(ctx context.Context, variantID uuid.UUID, currency string) ([]models.VariantPrice, error) {
	q := r.db.WithContext(ctx).Where("variant_id = ?", variantID)
	if currency != "" {
		q = q.Where("currency_code = ?", currency)
	}
	var prices []models.VariantPrice
	if err := orderedPrices(q).Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// DeletePrices removes the given tier rows.
func (r *Repository) DeletePrices(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.VariantPrice{}).Error
}

// DeleteAllPrices removes every tier of the variant in every currency.
func (r *Repository) DeleteAllPrices(ctx context.Context, variantID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("variant_id = ?", variantID).Delete(&models.VariantPrice{}).Error
}

// CreatePrices inserts the tier rows.
func (r *Repository) CreatePrices(ctx context.Context, prices []models.VariantPrice) error {
	if len(prices) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&prices).Error
}
