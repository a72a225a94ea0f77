package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/livan116/shopcart-backend/pkg/types"
)

// CartItem persists the product snapshot captured when the item was first
// added. Display fields are never re-synced with the catalog afterwards.
type CartItem struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	CartID        uuid.UUID      `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_items_cart_product,priority:1"`
	ProductID     string         `gorm:"column:product_id;not null;uniqueIndex:idx_cart_items_cart_product,priority:2"`
	Title         string         `gorm:"column:title;not null"`
	Price         float64        `gorm:"column:price;not null"`
	OriginalPrice float64        `gorm:"column:original_price;not null"`
	Images        []string       `gorm:"column:images;type:jsonb;serializer:json"`
	Category      types.Category `gorm:"column:category;type:jsonb;serializer:json"`
	Quantity      int            `gorm:"column:quantity;not null"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
