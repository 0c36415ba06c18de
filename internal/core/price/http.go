// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package price

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/tradepost/internal/platform/respond"
)

// Handler implements the price list endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Mount registers GET /prices. Must sit behind the request gate.
func (handler *Handler) Mount(router chi.Router) {
	router.Get("/prices", handler.list)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	body, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Raw(writer, body)
}
