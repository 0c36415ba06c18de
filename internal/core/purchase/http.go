// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/tradepost/internal/platform/request"
	"github.com/taibuivan/tradepost/internal/platform/respond"
	"github.com/taibuivan/tradepost/internal/platform/validate"
	"github.com/taibuivan/tradepost/pkg/money"
)

// Handler implements the purchase HTTP endpoint.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a new [Handler].
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Mount registers POST /purchase. Must sit behind the request gate.
func (handler *Handler) Mount(router chi.Router) {
	router.Post("/purchase", handler.purchase)
}

type purchaseRequest struct {
	ProductID int64 `json:"product_id"`
}

type purchaseResponse struct {
	Balance money.Amount `json:"balance"`
}

/*
Purchase buys one product for the caller.

POST /purchase

Request:
  - Header: Authorization: Bearer <token>
  - Body: purchaseRequest (ProductID)

Response:
  - 200: purchaseResponse: Remaining balance
  - 400: VALIDATION_ERROR, INVALID_REFERENCE or INSUFFICIENT_FUNDS
  - 409: CONFLICT after repeated concurrent modifications
*/
func (handler *Handler) purchase(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input purchaseRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if err := validator.Positive(FieldProductID, input.ProductID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	balance, err := handler.engine.Purchase(request.Context(), principal, input.ProductID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, purchaseResponse{Balance: balance})
}
