package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/livan116/shopcart-backend/api/responses"
	catalogsvc "github.com/livan116/shopcart-backend/internal/catalog"
	pkgerrors "github.com/livan116/shopcart-backend/pkg/errors"
	"github.com/livan116/shopcart-backend/pkg/logger"
)

// ProductsList proxies the external catalog listing.
func ProductsList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		body, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeRawJSON(w, body)
	}
}

// ProductsGet proxies a single catalog product.
func ProductsGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		body, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeRawJSON(w, body)
	}
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
