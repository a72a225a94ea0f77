package pricing

import (
	"github.com/livan116/shopcart-backend/pkg/config"
	"github.com/livan116/shopcart-backend/pkg/db/models"
)

// Line is a single priced cart line.
type Line struct {
	Price    float64
	Quantity int
}

// Engine computes cart summaries from the configured discount policy.
type Engine struct {
	threshold float64
	rate      float64
}

// NewEngine builds an engine from pricing configuration.
func NewEngine(cfg config.PricingConfig) *Engine {
	threshold := cfg.DiscountThreshold
	if threshold <= 0 {
		threshold = 1000
	}
	rate := cfg.DiscountRate
	if rate < 0 || rate >= 1 {
		rate = 0.10
	}
	return &Engine{threshold: threshold, rate: rate}
}

// ComputeSummary derives cart totals from the provided lines.
// The discount applies only when the subtotal strictly exceeds the threshold.
func (e *Engine) ComputeSummary(lines []Line) models.CartSummary {
	var summary models.CartSummary
	for _, line := range lines {
		summary.TotalItems++
		summary.TotalQuantity += line.Quantity
		summary.Subtotal += line.Price * float64(line.Quantity)
	}
	if summary.Subtotal > e.threshold {
		summary.Discount = summary.Subtotal * e.rate
	}
	summary.Total = summary.Subtotal - summary.Discount
	return summary
}

// LinesFromItems projects cart item rows into pricing lines.
func LinesFromItems(items []models.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{Price: item.Price, Quantity: item.Quantity})
	}
	return lines
}
