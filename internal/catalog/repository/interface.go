package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Vendor is a supplier that can be invited to quote.
type Vendor struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     *string   `db:"phone"`
	Address   *string   `db:"address"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Material is a procurable good referenced by material purchase requests.
type Material struct {
	ID        uuid.UUID `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Unit      string    `db:"unit"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ServiceCategory classifies outsourced-service purchase requests.
type ServiceCategory struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// CreateVendorParams contains data for creating a vendor.
type CreateVendorParams struct {
	Name    string
	Email   string
	Phone   *string
	Address *string
}

// UpdateVendorParams contains data for updating a vendor. Nil fields are
// left unchanged.
type UpdateVendorParams struct {
	ID      uuid.UUID
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Active  *bool
}

// ListVendorsParams defines filters for listing vendors.
type ListVendorsParams struct {
	Search     string
	ActiveOnly bool
	Offset     int
	Limit      int
}

// CreateMaterialParams contains data for creating a material.
type CreateMaterialParams struct {
	Code string
	Name string
	Unit string
}

// UpdateMaterialParams contains data for updating a material.
type UpdateMaterialParams struct {
	ID   uuid.UUID
	Code *string
	Name *string
	Unit *string
}

// ListMaterialsParams defines filters for listing materials.
type ListMaterialsParams struct {
	Search string
	Offset int
	Limit  int
}

// CreateServiceCategoryParams contains data for creating a service category.
type CreateServiceCategoryParams struct {
	Name        string
	Description *string
}

// UpdateServiceCategoryParams contains data for updating a service category.
type UpdateServiceCategoryParams struct {
	ID          uuid.UUID
	Name        *string
	Description *string
}

// Repository defines catalog storage operations.
type Repository interface {
	CreateVendor(ctx context.Context, params CreateVendorParams) (Vendor, error)
	UpdateVendor(ctx context.Context, params UpdateVendorParams) (Vendor, error)
	GetVendorByID(ctx context.Context, id uuid.UUID) (Vendor, error)
	ListVendors(ctx context.Context, params ListVendorsParams) ([]Vendor, int, error)
	// VendorActive reports whether the vendor exists and is active.
	VendorActive(ctx context.Context, id uuid.UUID) (bool, error)

	CreateMaterial(ctx context.Context, params CreateMaterialParams) (Material, error)
	UpdateMaterial(ctx context.Context, params UpdateMaterialParams) (Material, error)
	DeleteMaterial(ctx context.Context, id uuid.UUID) error
	GetMaterialByID(ctx context.Context, id uuid.UUID) (Material, error)
	ListMaterials(ctx context.Context, params ListMaterialsParams) ([]Material, int, error)
	MaterialExists(ctx context.Context, id uuid.UUID) (bool, error)

	CreateServiceCategory(ctx context.Context, params CreateServiceCategoryParams) (ServiceCategory, error)
	UpdateServiceCategory(ctx context.Context, params UpdateServiceCategoryParams) (ServiceCategory, error)
	DeleteServiceCategory(ctx context.Context, id uuid.UUID) error
	GetServiceCategoryByID(ctx context.Context, id uuid.UUID) (ServiceCategory, error)
	ListServiceCategories(ctx context.Context) ([]ServiceCategory, error)
	ServiceCategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}
