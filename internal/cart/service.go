package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/livan116/shopcart-backend/internal/pricing"
	"github.com/livan116/shopcart-backend/pkg/db/models"
	pkgerrors "github.com/livan116/shopcart-backend/pkg/errors"
)

const (
	cartNotFoundMessage = "Cart not found"
	itemNotFoundMessage = "Item not found in cart"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the per-user cart operations.
type Service interface {
	GetOrEmpty(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input ItemInput) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*CartDTO, error)
}

type service struct {
	repo    CartRepository
	tx      txRunner
	pricing *pricing.Engine
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, engine *pricing.Engine) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if engine == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	return &service{repo: repo, tx: tx, pricing: engine}, nil
}

// GetOrEmpty returns the persisted cart, or a synthetic empty cart when
// none exists. The empty cart is never persisted.
func (s *service) GetOrEmpty(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCartDTO(userID), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cartDTOFrom(userID, cart.Items, cart.Summary), nil
}

// AddItem appends a new line or increments the quantity of an existing
// one. Metadata captured on first add is never refreshed.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input ItemInput) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be at least 1")
	}

	var result *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
			}
			cart = &models.Cart{ID: uuid.New(), UserID: userID}
			if err := repo.Create(ctx, cart); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
			}
		}

		existing := findItem(cart.Items, input.ProductID)
		if existing != nil {
			if _, err := repo.UpdateItemQuantity(ctx, cart.ID, input.ProductID, existing.Quantity+input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "increment item quantity")
			}
		} else {
			originalPrice := input.OriginalPrice
			if originalPrice <= 0 {
				originalPrice = input.Price
			}
			item := &models.CartItem{
				ID:            uuid.New(),
				CartID:        cart.ID,
				ProductID:     input.ProductID,
				Title:         input.Title,
				Price:         input.Price,
				OriginalPrice: originalPrice,
				Images:        input.Images,
				Category:      input.Category,
				Quantity:      input.Quantity,
			}
			if err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
			}
		}

		result, err = s.recompute(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SetQuantity overwrites the quantity of an existing line.
func (s *service) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Quantity must be at least 1")
	}

	var result *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, cartNotFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		affected, err := repo.UpdateItemQuantity(ctx, cart.ID, productID, quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item quantity")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, itemNotFoundMessage)
		}

		result, err = s.recompute(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem drops the matching line. A missing productId is a no-op
// aside from the summary recompute.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	var result *CartDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, err := repo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, cartNotFoundMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
		}

		if err := repo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
		}

		result, err = s.recompute(ctx, repo, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recompute derives the summary from the current lines and persists it
// as the final step of the mutation.
func (s *service) recompute(ctx context.Context, repo CartRepository, cart *models.Cart) (*CartDTO, error) {
	items, err := repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}

	summary := s.pricing.ComputeSummary(pricing.LinesFromItems(items))
	if err := repo.UpdateSummary(ctx, cart.ID, summary); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist cart summary")
	}

	return cartDTOFrom(cart.UserID, items, summary), nil
}

func findItem(items []models.CartItem, productID string) *models.CartItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}
