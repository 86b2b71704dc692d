// Package handler exposes the catalog HTTP endpoints.
package handler

import (
	"net/http"
	"strconv"

	"procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/catalog/service"
	"procurement_backend/internal/catalog/transport"
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

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ── Vendors ───────────────────────────────────────────────────────────────────

// CreateVendor handles POST /api/v1/admin/catalog/vendors
func (h *Handler) CreateVendor(c *gin.Context) {
	var req transport.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	v, err := h.svc.CreateVendor(c.Request.Context(), repository.CreateVendorParams{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToVendorResponse(v))
}

// UpdateVendor handles PUT /api/v1/admin/catalog/vendors/:id
func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	v, err := h.svc.UpdateVendor(c.Request.Context(), repository.UpdateVendorParams{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Active:  req.Active,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToVendorResponse(v))
}

// GetVendorByID handles GET /api/v1/catalog/vendors/:id
func (h *Handler) GetVendorByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	v, err := h.svc.GetVendor(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToVendorResponse(v))
}

// ListVendors handles GET /api/v1/catalog/vendors
func (h *Handler) ListVendors(c *gin.Context) {
	vendors, total, err := h.svc.ListVendors(c.Request.Context(), repository.ListVendorsParams{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("active") == "true",
		Offset:     parseIntQuery(c, "offset", 0),
		Limit:      parseIntQuery(c, "limit", 20),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		items = append(items, transport.ToVendorResponse(v))
	}
	httpkit.OK(c, transport.PagedResponse[transport.VendorResponse]{Items: items, Total: total})
}

// ── Materials ─────────────────────────────────────────────────────────────────

// CreateMaterial handles POST /api/v1/admin/catalog/materials
func (h *Handler) CreateMaterial(c *gin.Context) {
	var req transport.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	m, err := h.svc.CreateMaterial(c.Request.Context(), repository.CreateMaterialParams{
		Code: req.Code,
		Name: req.Name,
		Unit: req.Unit,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToMaterialResponse(m))
}

// UpdateMaterial handles PUT /api/v1/admin/catalog/materials/:id
func (h *Handler) UpdateMaterial(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	m, err := h.svc.UpdateMaterial(c.Request.Context(), repository.UpdateMaterialParams{
		ID:   id,
		Code: req.Code,
		Name: req.Name,
		Unit: req.Unit,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToMaterialResponse(m))
}

// DeleteMaterial handles DELETE /api/v1/admin/catalog/materials/:id
func (h *Handler) DeleteMaterial(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteMaterial(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMaterialByID handles GET /api/v1/catalog/materials/:id
func (h *Handler) GetMaterialByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.GetMaterial(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToMaterialResponse(m))
}

// ListMaterials handles GET /api/v1/catalog/materials
func (h *Handler) ListMaterials(c *gin.Context) {
	materials, total, err := h.svc.ListMaterials(c.Request.Context(), repository.ListMaterialsParams{
		Search: c.Query("search"),
		Offset: parseIntQuery(c, "offset", 0),
		Limit:  parseIntQuery(c, "limit", 20),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		items = append(items, transport.ToMaterialResponse(m))
	}
	httpkit.OK(c, transport.PagedResponse[transport.MaterialResponse]{Items: items, Total: total})
}

// ── Service categories ────────────────────────────────────────────────────────

// CreateServiceCategory handles POST /api/v1/admin/catalog/service-categories
func (h *Handler) CreateServiceCategory(c *gin.Context) {
	var req transport.CreateServiceCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	sc, err := h.svc.CreateServiceCategory(c.Request.Context(), repository.CreateServiceCategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.ToServiceCategoryResponse(sc))
}

// UpdateServiceCategory handles PUT /api/v1/admin/catalog/service-categories/:id
func (h *Handler) UpdateServiceCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req transport.UpdateServiceCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	sc, err := h.svc.UpdateServiceCategory(c.Request.Context(), repository.UpdateServiceCategoryParams{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToServiceCategoryResponse(sc))
}

// DeleteServiceCategory handles DELETE /api/v1/admin/catalog/service-categories/:id
func (h *Handler) DeleteServiceCategory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteServiceCategory(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// GetServiceCategoryByID handles GET /api/v1/catalog/service-categories/:id
func (h *Handler) GetServiceCategoryByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	sc, err := h.svc.GetServiceCategory(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToServiceCategoryResponse(sc))
}

// ListServiceCategories handles GET /api/v1/catalog/service-categories
func (h *Handler) ListServiceCategories(c *gin.Context) {
	categories, err := h.svc.ListServiceCategories(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.ServiceCategoryResponse, 0, len(categories))
	for _, sc := range categories {
		items = append(items, transport.ToServiceCategoryResponse(sc))
	}
	httpkit.OK(c, transport.PagedResponse[transport.ServiceCategoryResponse]{Items: items, Total: len(items)})
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
