package transport

import (
	"time"

	"procurement_backend/internal/catalog/repository"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateVendorRequest is the request body for creating a vendor.
type CreateVendorRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=255"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
}

// UpdateVendorRequest is the request body for updating a vendor.
type UpdateVendorRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=500"`
	Active  *bool   `json:"active,omitempty"`
}

// CreateMaterialRequest is the request body for creating a material.
type CreateMaterialRequest struct {
	Code string `json:"code" validate:"required,min=1,max=50"`
	Name string `json:"name" validate:"required,min=1,max=255"`
	Unit string `json:"unit" validate:"required,min=1,max=50"`
}

// UpdateMaterialRequest is the request body for updating a material.
type UpdateMaterialRequest struct {
	Code *string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Unit *string `json:"unit,omitempty" validate:"omitempty,min=1,max=50"`
}

// CreateServiceCategoryRequest is the request body for creating a service category.
type CreateServiceCategoryRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateServiceCategoryRequest is the request body for updating a service category.
type UpdateServiceCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// VendorResponse is the API representation of a vendor.
type VendorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MaterialResponse is the API representation of a material.
type MaterialResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceCategoryResponse is the API representation of a service category.
type ServiceCategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PagedResponse wraps a paginated collection.
type PagedResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ToVendorResponse maps a vendor to its API representation.
func ToVendorResponse(v repository.Vendor) VendorResponse {
	return VendorResponse{
		ID:        v.ID,
		Name:      v.Name,
		Email:     v.Email,
		Phone:     v.Phone,
		Address:   v.Address,
		Active:    v.Active,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

// ToMaterialResponse maps a material to its API representation.
func ToMaterialResponse(m repository.Material) MaterialResponse {
	return MaterialResponse{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Unit:      m.Unit,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToServiceCategoryResponse maps a service category to its API representation.
func ToServiceCategoryResponse(sc repository.ServiceCategory) ServiceCategoryResponse {
	return ServiceCategoryResponse{
		ID:          sc.ID,
		Name:        sc.Name,
		Description: sc.Description,
		CreatedAt:   sc.CreatedAt,
		UpdatedAt:   sc.UpdatedAt,
	}
}
