package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/tieredpricing-backend/pkg/types"
)

// Product groups purchasable variants. Only the fields the pricing flows read are mapped.
type Product struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Title     string           `gorm:"column:title;not null"`
	Handle    string           `gorm:"column:handle;not null;uniqueIndex"`
	Metadata  types.Metadata   `gorm:"column:metadata;type:jsonb;serializer:json"`
	Variants  []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
