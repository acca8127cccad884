package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is the minimal cart aggregate: its currency scopes tier lookup.
type Cart struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	CurrencyCode string         `gorm:"column:currency_code;not null"`
	Items        []CartLineItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

func (c *Cart) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
