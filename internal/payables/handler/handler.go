// Package handler exposes the payables HTTP endpoints. Payables are created
// by the order-confirmation event handler, so the API surface is read-only.
package handler

import (
	"net/http"
	"strconv"

	"procurement_backend/internal/payables/repository"
	"procurement_backend/internal/payables/service"
	"procurement_backend/internal/payables/transport"
	"procurement_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for accounts payable.
type Handler struct {
	svc *service.Service
}

// New creates a new payables handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// List returns payables, optionally filtered by vendor.
func (h *Handler) List(c *gin.Context) {
	params := repository.ListParams{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "pageSize", 20),
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

// GetByOrderID returns the payable created for a purchase order.
func (h *Handler) GetByOrderID(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid order id", nil)
		return
	}

	ap, err := h.svc.GetByOrderID(c.Request.Context(), orderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToResponse(ap))
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
