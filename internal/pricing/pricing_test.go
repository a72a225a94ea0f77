package pricing

import (
	"math"
	"testing"

	"github.com/livan116/shopcart-backend/pkg/config"
	"github.com/livan116/shopcart-backend/pkg/db/models"
)

func defaultEngine() *Engine {
	return NewEngine(config.PricingConfig{DiscountThreshold: 1000, DiscountRate: 0.10})
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeSummaryEmpty(t *testing.T) {
	got := defaultEngine().ComputeSummary(nil)
	want := models.CartSummary{}
	if got != want {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestComputeSummaryBelowThreshold(t *testing.T) {
	got := defaultEngine().ComputeSummary([]Line{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	})
	if got.TotalItems != 2 {
		t.Fatalf("expected 2 lines, got %d", got.TotalItems)
	}
	if got.TotalQuantity != 3 {
		t.Fatalf("expected quantity 3, got %d", got.TotalQuantity)
	}
	if !almostEqual(got.Subtotal, 250) {
		t.Fatalf("expected subtotal 250, got %f", got.Subtotal)
	}
	if got.Discount != 0 {
		t.Fatalf("expected no discount, got %f", got.Discount)
	}
	if !almostEqual(got.Total, 250) {
		t.Fatalf("expected total 250, got %f", got.Total)
	}
}

func TestComputeSummaryExactThresholdHasNoDiscount(t *testing.T) {
	got := defaultEngine().ComputeSummary([]Line{{Price: 1000, Quantity: 1}})
	if got.Discount != 0 {
		t.Fatalf("expected no discount at exactly 1000, got %f", got.Discount)
	}
	if !almostEqual(got.Total, 1000) {
		t.Fatalf("expected total 1000, got %f", got.Total)
	}
}

func TestComputeSummaryAboveThresholdApplies10Percent(t *testing.T) {
	got := defaultEngine().ComputeSummary([]Line{
		{Price: 600, Quantity: 1},
		{Price: 250, Quantity: 2},
	})
	if !almostEqual(got.Subtotal, 1100) {
		t.Fatalf("expected subtotal 1100, got %f", got.Subtotal)
	}
	if !almostEqual(got.Discount, 110) {
		t.Fatalf("expected discount 110, got %f", got.Discount)
	}
	if !almostEqual(got.Total, 990) {
		t.Fatalf("expected total 990, got %f", got.Total)
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	eng := NewEngine(config.PricingConfig{DiscountThreshold: -5, DiscountRate: 2})
	got := eng.ComputeSummary([]Line{{Price: 2000, Quantity: 1}})
	if !almostEqual(got.Discount, 200) {
		t.Fatalf("expected fallback policy discount 200, got %f", got.Discount)
	}
}

func TestLinesFromItems(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Price: 10, Quantity: 3},
		{ProductID: "p2", Price: 5.5, Quantity: 1},
	}
	lines := LinesFromItems(items)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Price != 10 || lines[0].Quantity != 3 {
		t.Fatalf("unexpected first line: %+v", lines[0])
	}
}
