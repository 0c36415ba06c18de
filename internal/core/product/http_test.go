// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tradepost/internal/core/product"
	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/pkg/money"
)

type stubRepository struct {
	products []*product.Product
	err      error
}

func (s stubRepository) ListProducts(context.Context) ([]*product.Product, error) {
	return s.products, s.err
}

/*
TestHandler_ListProducts checks the catalog payload and error mapping.
*/
func TestHandler_ListProducts(t *testing.T) {
	tests := []struct {
		name       string
		repo       stubRepository
		wantStatus int
		wantBody   string
	}{
		{
			name:       "catalog",
			repo:       stubRepository{products: []*product.Product{{ID: 1, Name: "Sticker Capsule", Price: money.MustParse("2.5")}}},
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":1,"name":"Sticker Capsule","price":2.50}]`,
		},
		{
			name:       "empty",
			repo:       stubRepository{products: []*product.Product{}},
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
		},
		{
			name:       "store_down",
			repo:       stubRepository{err: apperr.StoreUnavailable(errors.New("dial tcp"))},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"Service temporarily unavailable","code":"STORE_UNAVAILABLE"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			router := chi.NewRouter()
			product.NewHandler(product.NewService(tt.repo, logger)).Mount(router)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/products", nil))

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}
