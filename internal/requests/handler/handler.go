// Package handler exposes the purchase request HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"procurement_backend/internal/requests/domain"
	"procurement_backend/internal/requests/repository"
	"procurement_backend/internal/requests/service"
	"procurement_backend/internal/requests/transport"
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

// Handler handles HTTP requests for purchase requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new requests handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create handles POST /api/v1/requests
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateRequestRequest
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

	pr, err := h.svc.Create(c.Request.Context(), service.CreateParams{
		Kind:              domain.RequestKind(req.Kind),
		MaterialID:        req.MaterialID,
		ServiceCategoryID: req.ServiceCategoryID,
		Description:       req.Description,
		Quantity:          req.Quantity,
		Unit:              req.Unit,
		RequiredDate:      req.RequiredDate,
		RequestedBy:       identity.UserID,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToResponse(pr))
}

// Update handles PUT /api/v1/requests/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pr, err := h.svc.Update(c.Request.Context(), id, service.UpdateParams{
		Description:  req.Description,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		RequiredDate: req.RequiredDate,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(pr))
}

// SendRfq handles POST /api/v1/requests/:id/send-rfq
func (h *Handler) SendRfq(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.SendRfqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pr, err := h.svc.SendRfq(c.Request.Context(), id, req.VendorIDs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(pr))
}

// RecordReply handles POST /api/v1/requests/:id/items/:itemId/reply
func (h *Handler) RecordReply(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	var req transport.RecordReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pr, err := h.svc.RecordRfqReply(c.Request.Context(), id, itemID, req.QuotedPriceCents, req.QuotedLeadTimeDays, req.Notes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(pr))
}

// MarkNoResponse handles POST /api/v1/requests/:id/items/:itemId/no-response
func (h *Handler) MarkNoResponse(c *gin.Context) {
	h.itemAction(c, h.svc.MarkRfqNoResponse)
}

// SelectVendor handles POST /api/v1/requests/:id/items/:itemId/select
func (h *Handler) SelectVendor(c *gin.Context) {
	h.itemAction(c, h.svc.SelectVendor)
}

// RejectRfq handles POST /api/v1/requests/:id/items/:itemId/reject
func (h *Handler) RejectRfq(c *gin.Context) {
	h.itemAction(c, h.svc.RejectRfq)
}

// Cancel handles POST /api/v1/requests/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pr, err := h.svc.Cancel(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(pr))
}

// GetByID handles GET /api/v1/requests/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	pr, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(pr))
}

// List handles GET /api/v1/requests
func (h *Handler) List(c *gin.Context) {
	params := repository.ListParams{
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      parseIntQuery(c, "page", 1),
		PageSize:  parseIntQuery(c, "pageSize", 20),
	}
	if v := c.Query("status"); v != "" {
		status := domain.RequestStatus(v)
		params.Status = &status
	}
	if v := c.Query("kind"); v != "" {
		kind := domain.RequestKind(v)
		params.Kind = &kind
	}

	res, err := h.svc.List(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToListResponse(res))
}

func (h *Handler) itemAction(c *gin.Context, fn func(ctx context.Context, id, itemID uuid.UUID) (*domain.PurchaseRequest, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "itemId")
	if !ok {
		return
	}

	pr, err := fn(c.Request.Context(), id, itemID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(pr))
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
