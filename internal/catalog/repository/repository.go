package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"procurement_backend/platform/apperr"
	"procurement_backend/platform/db"
)

const (
	vendorNotFoundMessage   = "vendor not found"
	materialNotFoundMessage = "material not found"
	categoryNotFoundMessage = "service category not found"
)

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// CreateVendor creates a vendor. New vendors start active.
func (r *Repo) CreateVendor(ctx context.Context, params CreateVendorParams) (Vendor, error) {
	query := `
		INSERT INTO vendors (name, email, phone, address, active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, name, email, phone, address, active, created_at, updated_at`

	var v Vendor
	err := r.pool.QueryRow(ctx, query, params.Name, params.Email, params.Phone, params.Address).Scan(
		&v.ID, &v.Name, &v.Email, &v.Phone, &v.Address, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Vendor{}, apperr.Conflict("a vendor with this email already exists")
		}
		return Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	return v, nil
}

// UpdateVendor updates a vendor.
func (r *Repo) UpdateVendor(ctx context.Context, params UpdateVendorParams) (Vendor, error) {
	query := `
		UPDATE vendors
		SET name = COALESCE($2, name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			address = COALESCE($5, address),
			active = COALESCE($6, active),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, email, phone, address, active, created_at, updated_at`

	var v Vendor
	err := r.pool.QueryRow(ctx, query,
		params.ID, params.Name, params.Email, params.Phone, params.Address, params.Active,
	).Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Address, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vendor{}, apperr.NotFound(vendorNotFoundMessage)
		}
		return Vendor{}, fmt.Errorf("update vendor: %w", err)
	}
	return v, nil
}

// GetVendorByID returns a vendor by id.
func (r *Repo) GetVendorByID(ctx context.Context, id uuid.UUID) (Vendor, error) {
	query := `
		SELECT id, name, email, phone, address, active, created_at, updated_at
		FROM vendors WHERE id = $1`

	var v Vendor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&v.ID, &v.Name, &v.Email, &v.Phone, &v.Address, &v.Active, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vendor{}, apperr.NotFound(vendorNotFoundMessage)
		}
		return Vendor{}, fmt.Errorf("get vendor: %w", err)
	}
	return v, nil
}

// ListVendors lists vendors with filters applied.
func (r *Repo) ListVendors(ctx context.Context, params ListVendorsParams) ([]Vendor, int, error) {
	conditions := []string{"TRUE"}
	args := []any{}
	idx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", idx, idx))
		args = append(args, "%"+params.Search+"%")
		idx++
	}
	if params.ActiveOnly {
		conditions = append(conditions, "active = TRUE")
	}
	where := strings.Join(conditions, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM vendors WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count vendors: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT id, name, email, phone, address, active, created_at, updated_at
		FROM vendors
		WHERE %s
		ORDER BY name ASC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Address, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, total, nil
}

// VendorActive reports whether the vendor exists and is active.
func (r *Repo) VendorActive(ctx context.Context, id uuid.UUID) (bool, error) {
	var active bool
	query := `SELECT EXISTS (SELECT 1 FROM vendors WHERE id = $1 AND active = TRUE)`
	if err := r.pool.QueryRow(ctx, query, id).Scan(&active); err != nil {
		return false, fmt.Errorf("check vendor: %w", err)
	}
	return active, nil
}

// CreateMaterial creates a material.
func (r *Repo) CreateMaterial(ctx context.Context, params CreateMaterialParams) (Material, error) {
	query := `
		INSERT INTO materials (code, name, unit)
		VALUES ($1, $2, $3)
		RETURNING id, code, name, unit, created_at, updated_at`

	var m Material
	err := r.pool.QueryRow(ctx, query, params.Code, params.Name, params.Unit).Scan(
		&m.ID, &m.Code, &m.Name, &m.Unit, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Material{}, apperr.Conflict("a material with this code already exists")
		}
		return Material{}, fmt.Errorf("create material: %w", err)
	}
	return m, nil
}

// UpdateMaterial updates a material.
func (r *Repo) UpdateMaterial(ctx context.Context, params UpdateMaterialParams) (Material, error) {
	query := `
		UPDATE materials
		SET code = COALESCE($2, code),
			name = COALESCE($3, name),
			unit = COALESCE($4, unit),
			updated_at = now()
		WHERE id = $1
		RETURNING id, code, name, unit, created_at, updated_at`

	var m Material
	err := r.pool.QueryRow(ctx, query, params.ID, params.Code, params.Name, params.Unit).Scan(
		&m.ID, &m.Code, &m.Name, &m.Unit, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Material{}, apperr.NotFound(materialNotFoundMessage)
		}
		return Material{}, fmt.Errorf("update material: %w", err)
	}
	return m, nil
}

// DeleteMaterial deletes a material.
func (r *Repo) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(materialNotFoundMessage)
	}
	return nil
}

// GetMaterialByID returns a material by id.
func (r *Repo) GetMaterialByID(ctx context.Context, id uuid.UUID) (Material, error) {
	query := `SELECT id, code, name, unit, created_at, updated_at FROM materials WHERE id = $1`

	var m Material
	err := r.pool.QueryRow(ctx, query, id).Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Material{}, apperr.NotFound(materialNotFoundMessage)
		}
		return Material{}, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// ListMaterials lists materials with filters applied.
func (r *Repo) ListMaterials(ctx context.Context, params ListMaterialsParams) ([]Material, int, error) {
	where := "TRUE"
	args := []any{}
	idx := 1
	if params.Search != "" {
		where = fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", idx, idx)
		args = append(args, "%"+params.Search+"%")
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM materials WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT id, code, name, unit, created_at, updated_at
		FROM materials
		WHERE %s
		ORDER BY code ASC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()

	var materials []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Unit, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}
	return materials, total, nil
}

// MaterialExists reports whether the material exists.
func (r *Repo) MaterialExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM materials WHERE id = $1)`
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check material: %w", err)
	}
	return exists, nil
}

// CreateServiceCategory creates a service category.
func (r *Repo) CreateServiceCategory(ctx context.Context, params CreateServiceCategoryParams) (ServiceCategory, error) {
	query := `
		INSERT INTO service_categories (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at, updated_at`

	var sc ServiceCategory
	err := r.pool.QueryRow(ctx, query, params.Name, params.Description).Scan(
		&sc.ID, &sc.Name, &sc.Description, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ServiceCategory{}, apperr.Conflict("a service category with this name already exists")
		}
		return ServiceCategory{}, fmt.Errorf("create service category: %w", err)
	}
	return sc, nil
}

// UpdateServiceCategory updates a service category.
func (r *Repo) UpdateServiceCategory(ctx context.Context, params UpdateServiceCategoryParams) (ServiceCategory, error) {
	query := `
		UPDATE service_categories
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, created_at, updated_at`

	var sc ServiceCategory
	err := r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Description).Scan(
		&sc.ID, &sc.Name, &sc.Description, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceCategory{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return ServiceCategory{}, fmt.Errorf("update service category: %w", err)
	}
	return sc, nil
}

// DeleteServiceCategory deletes a service category.
func (r *Repo) DeleteServiceCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM service_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(categoryNotFoundMessage)
	}
	return nil
}

// GetServiceCategoryByID returns a service category by id.
func (r *Repo) GetServiceCategoryByID(ctx context.Context, id uuid.UUID) (ServiceCategory, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM service_categories WHERE id = $1`

	var sc ServiceCategory
	err := r.pool.QueryRow(ctx, query, id).Scan(&sc.ID, &sc.Name, &sc.Description, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceCategory{}, apperr.NotFound(categoryNotFoundMessage)
		}
		return ServiceCategory{}, fmt.Errorf("get service category: %w", err)
	}
	return sc, nil
}

// ListServiceCategories lists all service categories.
func (r *Repo) ListServiceCategories(ctx context.Context) ([]ServiceCategory, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM service_categories ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	defer rows.Close()

	var categories []ServiceCategory
	for rows.Next() {
		var sc ServiceCategory
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Description, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan service category: %w", err)
		}
		categories = append(categories, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	return categories, nil
}

// ServiceCategoryExists reports whether the service category exists.
func (r *Repo) ServiceCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM service_categories WHERE id = $1)`
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check service category: %w", err)
	}
	return exists, nil
}
