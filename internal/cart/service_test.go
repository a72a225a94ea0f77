package cart

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/livan116/shopcart-backend/internal/pricing"
	"github.com/livan116/shopcart-backend/pkg/config"
	"github.com/livan116/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/livan116/shopcart-backend/pkg/errors"
	"github.com/livan116/shopcart-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	engine := pricing.NewEngine(config.PricingConfig{DiscountThreshold: 1000, DiscountRate: 0.10})
	svc, err := NewService(NewRepository(conn), gormTxRunner{db: conn}, engine)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGetOrEmptyReturnsSyntheticCartWithoutPersisting(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	cart, err := svc.GetOrEmpty(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(cart.Items))
	}
	if cart.Summary != (SummaryDTO{}) {
		t.Fatalf("expected zero summary, got %+v", cart.Summary)
	}

	// Adding after the empty read must still create a fresh cart; a
	// persisted empty record would have been visible here as an existing one.
	if _, err := svc.AddItem(ctx, userID, ItemInput{ProductID: "p1", Title: "First", Price: 10, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}
}

func TestAddItemRejectsQuantityBelowOne(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, uuid.New(), ItemInput{ProductID: "p1", Price: 10, Quantity: 0})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemUpsertsByQuantityAndKeepsFirstAddMetadata(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	first := ItemInput{
		ProductID: "p1",
		Title:     "Original Title",
		Price:     25,
		Images:    []string{"a.jpg"},
		Category:  types.Category{Name: "shoes", ID: "c1"},
		Quantity:  2,
	}
	if _, err := svc.AddItem(ctx, userID, first); err != nil {
		t.Fatalf("first add: %v", err)
	}

	second := ItemInput{
		ProductID: "p1",
		Title:     "Changed Title",
		Price:     99,
		Quantity:  3,
	}
	cart, err := svc.AddItem(ctx, userID, second)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(cart.Items) != 1 {
		t.Fatalf("expected a single line, got %d", len(cart.Items))
	}
	item := cart.Items[0]
	if item.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", item.Quantity)
	}
	if item.Title != "Original Title" || item.Price != 25 {
		t.Fatalf("expected first-add metadata to win, got %+v", item)
	}
	if !almostEqual(cart.Summary.Subtotal, 125) {
		t.Fatalf("expected subtotal 125, got %f", cart.Summary.Subtotal)
	}
}

func TestAddItemDefaultsOriginalPriceToPrice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, uuid.New(), ItemInput{ProductID: "p1", Price: 42.5, Quantity: 1})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if cart.Items[0].OriginalPrice != 42.5 {
		t.Fatalf("expected original price 42.5, got %f", cart.Items[0].OriginalPrice)
	}
}

func TestSetQuantityOverwrites(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, ItemInput{ProductID: "p1", Price: 100, Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	cart, err := svc.SetQuantity(ctx, userID, "p1", 7)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if cart.Items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", cart.Items[0].Quantity)
	}
	if !almostEqual(cart.Summary.Subtotal, 700) {
		t.Fatalf("expected subtotal 700, got %f", cart.Summary.Subtotal)
	}
}

func TestSetQuantityWithoutCartIsNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SetQuantity(context.Background(), uuid.New(), "p1", 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetQuantityUnknownItemIsNotFound(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, ItemInput{ProductID: "p1", Price: 10, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	_, err := svc.SetQuantity(ctx, userID, "missing", 2)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSetQuantityRejectsQuantityBelowOne(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.SetQuantity(context.Background(), uuid.New(), "p1", 0)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemoveItemUnknownProductIsNoOp(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, ItemInput{ProductID: "p1", Price: 10, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	cart, err := svc.RemoveItem(ctx, userID, "missing")
	if err != nil {
		t.Fatalf("remove missing item: %v", err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("expected cart unchanged, got %d items", len(cart.Items))
	}
}

func TestRemoveItemWithoutCartIsNotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.RemoveItem(context.Background(), uuid.New(), "p1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCartDiscountScenario(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, userID, ItemInput{ProductID: "p1", Title: "Boots", Price: 600, Quantity: 1})
	if err != nil {
		t.Fatalf("add p1: %v", err)
	}
	if cart.Summary.TotalItems != 1 || cart.Summary.TotalQuantity != 1 {
		t.Fatalf("unexpected counts after p1: %+v", cart.Summary)
	}
	if !almostEqual(cart.Summary.Subtotal, 600) || cart.Summary.Discount != 0 || !almostEqual(cart.Summary.Total, 600) {
		t.Fatalf("unexpected summary after p1: %+v", cart.Summary)
	}

	cart, err = svc.AddItem(ctx, userID, ItemInput{ProductID: "p2", Title: "Jacket", Price: 500, Quantity: 1})
	if err != nil {
		t.Fatalf("add p2: %v", err)
	}
	if !almostEqual(cart.Summary.Subtotal, 1100) || !almostEqual(cart.Summary.Discount, 110) || !almostEqual(cart.Summary.Total, 990) {
		t.Fatalf("expected discount past threshold, got %+v", cart.Summary)
	}

	cart, err = svc.RemoveItem(ctx, userID, "p1")
	if err != nil {
		t.Fatalf("remove p1: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].ProductID != "p2" {
		t.Fatalf("expected only p2 to remain, got %+v", cart.Items)
	}
	if !almostEqual(cart.Summary.Subtotal, 500) || cart.Summary.Discount != 0 || !almostEqual(cart.Summary.Total, 500) {
		t.Fatalf("expected discount to drop with subtotal, got %+v", cart.Summary)
	}
}

func TestSummaryPersistedWithItems(t *testing.T) {
	svc := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, userID, ItemInput{ProductID: "p1", Price: 600, Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	// A fresh read must see the recomputed summary, not a stale one.
	cart, err := svc.GetOrEmpty(ctx, userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if !almostEqual(cart.Summary.Subtotal, 1200) || !almostEqual(cart.Summary.Discount, 120) {
		t.Fatalf("expected persisted summary 1200/120, got %+v", cart.Summary)
	}
}
