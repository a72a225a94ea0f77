package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/livan116/shopcart-backend/api/middleware"
	cartsvc "github.com/livan116/shopcart-backend/internal/cart"
	pkgerrors "github.com/livan116/shopcart-backend/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error

	gotProductID string
	gotQuantity  int
	gotInput     cartsvc.ItemInput
}

func (s *stubCartService) GetOrEmpty(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, userID uuid.UUID, input cartsvc.ItemInput) (*cartsvc.CartDTO, error) {
	s.gotInput = input
	return s.cart, s.err
}

func (s *stubCartService) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*cartsvc.CartDTO, error) {
	s.gotProductID = productID
	s.gotQuantity = quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*cartsvc.CartDTO, error) {
	s.gotProductID = productID
	return s.cart, s.err
}

func authedRequest(method, target string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func sampleCart(userID uuid.UUID) *cartsvc.CartDTO {
	return &cartsvc.CartDTO{
		UserID: userID,
		Items: []cartsvc.ItemDTO{
			{ProductID: "p1", Title: "Boots", Price: 600, OriginalPrice: 600, Images: []string{}, Quantity: 1},
		},
		Summary: cartsvc.SummaryDTO{TotalItems: 1, TotalQuantity: 1, Subtotal: 600, Total: 600},
	}
}

func TestCartGetReturnsDocument(t *testing.T) {
	userID := uuid.New()
	handler := CartGet(&stubCartService{cart: sampleCart(userID)}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body cartsvc.CartDTO
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ProductID != "p1" {
		t.Fatalf("unexpected items: %+v", body.Items)
	}
	if body.Summary.Subtotal != 600 {
		t.Fatalf("unexpected summary: %+v", body.Summary)
	}
}

func TestCartGetWithoutUserContextIsUnauthorized(t *testing.T) {
	handler := CartGet(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddPassesSnapshotToService(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}
	handler := CartAdd(svc, nil)

	payload := `{"productId":"p1","title":"Boots","price":600,"images":["a.jpg"],"category":{"name":"shoes","id":"c1"},"quantity":2}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/add", payload))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotInput.ProductID != "p1" || svc.gotInput.Quantity != 2 || svc.gotInput.Price != 600 {
		t.Fatalf("unexpected input: %+v", svc.gotInput)
	}
}

func TestCartAddRejectsMalformedBody(t *testing.T) {
	handler := CartAdd(&stubCartService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/cart/add", `{"productId":`))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpdateUsesRouteParam(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}

	router := chi.NewRouter()
	router.Put("/api/cart/update/{productId}", CartUpdate(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/cart/update/p1", `{"quantity":4}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotProductID != "p1" || svc.gotQuantity != 4 {
		t.Fatalf("unexpected call: product=%s quantity=%d", svc.gotProductID, svc.gotQuantity)
	}
}

func TestCartUpdateNotFoundPropagates(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in cart")}

	router := chi.NewRouter()
	router.Put("/api/cart/update/{productId}", CartUpdate(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/cart/update/missing", `{"quantity":4}`))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "Item not found in cart" {
		t.Fatalf("unexpected error message %q", body.Error)
	}
}

func TestCartRemoveUsesRouteParam(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{cart: sampleCart(userID)}

	router := chi.NewRouter()
	router.Delete("/api/cart/remove/{productId}", CartRemove(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodDelete, "/api/cart/remove/p1", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotProductID != "p1" {
		t.Fatalf("unexpected product id %q", svc.gotProductID)
	}
}

func TestCartStorageFaultIs500(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.Wrap(pkgerrors.CodeInternal, context.DeadlineExceeded, "load cart")}
	handler := CartGet(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/cart", ""))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
