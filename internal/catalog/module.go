// Package catalog provides the catalog bounded context module: vendors,
// materials and service categories referenced by the procurement workflow.
package catalog

import (
	"procurement_backend/internal/catalog/handler"
	"procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/catalog/service"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use. The requests module
// uses it to validate vendor, material and service category references.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Protected read-only endpoints
	ctx.Protected.GET("/catalog/vendors", m.handler.ListVendors)
	ctx.Protected.GET("/catalog/vendors/:id", m.handler.GetVendorByID)
	ctx.Protected.GET("/catalog/materials", m.handler.ListMaterials)
	ctx.Protected.GET("/catalog/materials/:id", m.handler.GetMaterialByID)
	ctx.Protected.GET("/catalog/service-categories", m.handler.ListServiceCategories)
	ctx.Protected.GET("/catalog/service-categories/:id", m.handler.GetServiceCategoryByID)

	// Admin CRUD endpoints
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/vendors", m.handler.CreateVendor)
	adminGroup.PUT("/vendors/:id", m.handler.UpdateVendor)

	adminGroup.POST("/materials", m.handler.CreateMaterial)
	adminGroup.PUT("/materials/:id", m.handler.UpdateMaterial)
	adminGroup.DELETE("/materials/:id", m.handler.DeleteMaterial)

	adminGroup.POST("/service-categories", m.handler.CreateServiceCategory)
	adminGroup.PUT("/service-categories/:id", m.handler.UpdateServiceCategory)
	adminGroup.DELETE("/service-categories/:id", m.handler.DeleteServiceCategory)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
