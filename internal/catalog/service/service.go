// Package service contains the catalog business logic. The catalog is
// reference data: vendors that can quote, materials and service categories
// that purchase requests point at.
package service

import (
	"context"

	"procurement_backend/internal/catalog/repository"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// Service implements catalog use cases.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateVendor creates a vendor.
func (s *Service) CreateVendor(ctx context.Context, params repository.CreateVendorParams) (repository.Vendor, error) {
	v, err := s.repo.CreateVendor(ctx, params)
	if err != nil {
		return repository.Vendor{}, err
	}
	s.log.Info("vendor created", "vendorId", v.ID, "name", v.Name)
	return v, nil
}

// UpdateVendor updates a vendor. Deactivating a vendor (Active=false) keeps
// the record for open RFQ rounds but blocks it from new ones.
func (s *Service) UpdateVendor(ctx context.Context, params repository.UpdateVendorParams) (repository.Vendor, error) {
	return s.repo.UpdateVendor(ctx, params)
}

// GetVendor returns a vendor by id.
func (s *Service) GetVendor(ctx context.Context, id uuid.UUID) (repository.Vendor, error) {
	return s.repo.GetVendorByID(ctx, id)
}

// ListVendors lists vendors.
func (s *Service) ListVendors(ctx context.Context, params repository.ListVendorsParams) ([]repository.Vendor, int, error) {
	return s.repo.ListVendors(ctx, params)
}

// VendorActive reports whether the vendor exists and is active.
func (s *Service) VendorActive(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.VendorActive(ctx, id)
}

// CreateMaterial creates a material.
func (s *Service) CreateMaterial(ctx context.Context, params repository.CreateMaterialParams) (repository.Material, error) {
	return s.repo.CreateMaterial(ctx, params)
}

// UpdateMaterial updates a material.
func (s *Service) UpdateMaterial(ctx context.Context, params repository.UpdateMaterialParams) (repository.Material, error) {
	return s.repo.UpdateMaterial(ctx, params)
}

// DeleteMaterial deletes a material.
func (s *Service) DeleteMaterial(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMaterial(ctx, id)
}

// GetMaterial returns a material by id.
func (s *Service) GetMaterial(ctx context.Context, id uuid.UUID) (repository.Material, error) {
	return s.repo.GetMaterialByID(ctx, id)
}

// ListMaterials lists materials.
func (s *Service) ListMaterials(ctx context.Context, params repository.ListMaterialsParams) ([]repository.Material, int, error) {
	return s.repo.ListMaterials(ctx, params)
}

// MaterialExists reports whether the material exists.
func (s *Service) MaterialExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.MaterialExists(ctx, id)
}

// CreateServiceCategory creates a service category.
func (s *Service) CreateServiceCategory(ctx context.Context, params repository.CreateServiceCategoryParams) (repository.ServiceCategory, error) {
	return s.repo.CreateServiceCategory(ctx, params)
}

// UpdateServiceCategory updates a service category.
func (s *Service) UpdateServiceCategory(ctx context.Context, params repository.UpdateServiceCategoryParams) (repository.ServiceCategory, error) {
	return s.repo.UpdateServiceCategory(ctx, params)
}

// DeleteServiceCategory deletes a service category.
func (s *Service) DeleteServiceCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteServiceCategory(ctx, id)
}

// GetServiceCategory returns a service category by id.
func (s *Service) GetServiceCategory(ctx context.Context, id uuid.UUID) (repository.ServiceCategory, error) {
	return s.repo.GetServiceCategoryByID(ctx, id)
}

// ListServiceCategories lists all service categories.
func (s *Service) ListServiceCategories(ctx context.Context) ([]repository.ServiceCategory, error) {
	return s.repo.ListServiceCategories(ctx)
}

// ServiceCategoryExists reports whether the service category exists.
func (s *Service) ServiceCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ServiceCategoryExists(ctx, id)
}
