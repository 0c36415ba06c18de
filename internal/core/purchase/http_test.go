// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/tradepost/internal/core/purchase"
	"github.com/taibuivan/tradepost/internal/platform/ctxutil"
)

/*
TestHandler_Purchase covers body validation, principal handling and the
balance response.
*/
func TestHandler_Purchase(t *testing.T) {
	tests := []struct {
		name       string
		principal  string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"success", "alice", `{"product_id":1}`, http.StatusOK, `{"balance":2.50}`},
		{"no_principal", "", `{"product_id":1}`, http.StatusUnauthorized, `{"error":"missing token","code":"UNAUTHENTICATED"}`},
		{"bad_json", "alice", `{"product_id":"x"}`, http.StatusBadRequest, `{"error":"Invalid JSON payload","code":"VALIDATION_ERROR"}`},
		{"zero_id", "alice", `{}`, http.StatusBadRequest, `{"error":"Validation failed","code":"VALIDATION_ERROR","details":[{"field":"product_id","message":"Must be a positive number"}]}`},
		{"unknown_product", "alice", `{"product_id":42}`, http.StatusBadRequest, `{"error":"Product does not exist","code":"INVALID_REFERENCE"}`},
		{"unknown_user", "ghost", `{"product_id":1}`, http.StatusBadRequest, `{"error":"User does not exist","code":"INVALID_REFERENCE"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := purchase.NewHandler(newEngine(seededLedger("10.0"), nil))
			router := chi.NewRouter()
			handler.Mount(router)

			request := httptest.NewRequest(http.MethodPost, "/purchase", strings.NewReader(tt.body))
			if tt.principal != "" {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), tt.principal))
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.JSONEq(t, tt.wantBody, recorder.Body.String())
		})
	}
}

/*
TestHandler_PurchaseInsufficientFunds returns 400 on the second purchase.
*/
func TestHandler_PurchaseInsufficientFunds(t *testing.T) {
	handler := purchase.NewHandler(newEngine(seededLedger("10.0"), nil))
	router := chi.NewRouter()
	handler.Mount(router)

	codes := make([]int, 0, 2)
	for range 2 {
		request := httptest.NewRequest(http.MethodPost, "/purchase", strings.NewReader(`{"product_id":1}`))
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), "alice"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, codes)
}
