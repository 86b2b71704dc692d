// Package handler exposes the purchase order HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"procurement_backend/internal/orders/domain"
	"procurement_backend/internal/orders/repository"
	"procurement_backend/internal/orders/service"
	"procurement_backend/internal/orders/transport"
	"procurement_backend/platform/httpkit"
	"procurement_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

// Handler handles HTTP requests for purchase orders.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new orders handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create handles POST /api/v1/orders
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	identity, ok := httpkit.MustGetIdentity(c)
	if !ok {
		return
	}

	order, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		RfqItemID:            req.RfqItemID,
		OrderDate:            req.OrderDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
		CreatedBy:            identity.UserID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToResponse(order))
}

// Update handles PUT /api/v1/orders/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	order, err := h.svc.Update(c.Request.Context(), id, service.UpdateParams{
		OrderDate:            req.OrderDate,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Notes:                req.Notes,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(order))
}

// Send handles POST /api/v1/orders/:id/send
func (h *Handler) Send(c *gin.Context) {
	h.transition(c, h.svc.Send)
}

// Confirm handles POST /api/v1/orders/:id/confirm
func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.svc.Confirm)
}

// Receive handles POST /api/v1/orders/:id/receive
func (h *Handler) Receive(c *gin.Context) {
	h.transition(c, h.svc.Receive)
}

// Cancel handles POST /api/v1/orders/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

// GetByID handles GET /api/v1/orders/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(order))
}

// List handles GET /api/v1/orders
func (h *Handler) List(c *gin.Context) {
	params := repository.ListParams{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      parseIntQuery(c, "page", 1),
		PageSize:  parseIntQuery(c, "pageSize", 20),
	}
	if v := c.Query("status"); v != "" {
		status := domain.OrderStatus(v)
		params.Status = &status
	}
	if v := c.Query("requestId"); v != "" {
		requestID, err := uuid.Parse(v)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid request id", nil)
			return
		}
		params.PurchaseRequestID = &requestID
	}
	if v := c.Query("vendorId"); v != "" {
		vendorID, err := uuid.Parse(v)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid vendor id", nil)
			return
		}
		params.VendorID = &vendorID
	}

	res, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToListResponse(res))
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(order))
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
