package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the single per-user cart document. The summary columns are
// derived from Items and rewritten on every mutation before persistence;
// nothing else writes them.
type Cart struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID   `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Items     []CartItem  `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Summary   CartSummary `gorm:"embedded;embeddedPrefix:summary_"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

// CartSummary carries the aggregates recomputed from the item list.
type CartSummary struct {
	TotalItems    int     `gorm:"column:total_items;not null;default:0"`
	TotalQuantity int     `gorm:"column:total_quantity;not null;default:0"`
	Subtotal      float64 `gorm:"column:subtotal;not null;default:0"`
	Discount      float64 `gorm:"column:discount;not null;default:0"`
	Total         float64 `gorm:"column:total;not null;default:0"`
}
