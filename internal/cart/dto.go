package cart

import (
	"github.com/google/uuid"

	"github.com/livan116/shopcart-backend/pkg/db/models"
	"github.com/livan116/shopcart-backend/pkg/types"
)

// ItemInput is the product snapshot captured when a line is added.
type ItemInput struct {
	ProductID     string
	Title         string
	Price         float64
	OriginalPrice float64
	Images        []string
	Category      types.Category
	Quantity      int
}

// ItemDTO is the wire shape of a single cart line.
type ItemDTO struct {
	ProductID     string         `json:"productId"`
	Title         string         `json:"title"`
	Price         float64        `json:"price"`
	OriginalPrice float64        `json:"originalPrice"`
	Images        []string       `json:"images"`
	Category      types.Category `json:"category"`
	Quantity      int            `json:"quantity"`
}

// SummaryDTO carries the derived aggregates returned with every cart.
type SummaryDTO struct {
	TotalItems    int     `json:"totalItems"`
	TotalQuantity int     `json:"totalQuantity"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`
}

// CartDTO is the full cart document returned by every operation.
type CartDTO struct {
	UserID  uuid.UUID  `json:"userId"`
	Items   []ItemDTO  `json:"items"`
	Summary SummaryDTO `json:"summary"`
}

func emptyCartDTO(userID uuid.UUID) *CartDTO {
	return &CartDTO{
		UserID: userID,
		Items:  []ItemDTO{},
	}
}

func cartDTOFrom(userID uuid.UUID, items []models.CartItem, summary models.CartSummary) *CartDTO {
	dto := &CartDTO{
		UserID:  userID,
		Items:   make([]ItemDTO, 0, len(items)),
		Summary: summaryDTOFrom(summary),
	}
	for _, item := range items {
		dto.Items = append(dto.Items, itemDTOFrom(item))
	}
	return dto
}

func itemDTOFrom(item models.CartItem) ItemDTO {
	images := item.Images
	if images == nil {
		images = []string{}
	}
	return ItemDTO{
		ProductID:     item.ProductID,
		Title:         item.Title,
		Price:         item.Price,
		OriginalPrice: item.OriginalPrice,
		Images:        images,
		Category:      item.Category,
		Quantity:      item.Quantity,
	}
}

func summaryDTOFrom(summary models.CartSummary) SummaryDTO {
	return SummaryDTO{
		TotalItems:    summary.TotalItems,
		TotalQuantity: summary.TotalQuantity,
		Subtotal:      summary.Subtotal,
		Discount:      summary.Discount,
		Total:         summary.Total,
	}
}
