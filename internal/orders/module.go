// Package orders provides the purchase order bounded context module.
package orders

import (
	"procurement_backend/internal/events"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/orders/handler"
	"procurement_backend/internal/orders/repository"
	"procurement_backend/internal/orders/service"
	"procurement_backend/internal/sequence"
	"procurement_backend/platform/db"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the orders module. The requests store is
// injected so order creation, receipt and cancellation can mutate the
// originating purchase request in the same transaction.
func NewModule(pool *pgxpool.Pool, requests service.RequestStore, bus events.Bus, val *validator.Validator, log *logger.Logger, currency string) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, requests, db.NewTxManager(pool), sequence.New(pool), bus, log, currency)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "orders"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts order routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/orders")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.POST("/:id/send", m.handler.Send)
	group.POST("/:id/confirm", m.handler.Confirm)
	group.POST("/:id/receive", m.handler.Receive)
	group.POST("/:id/cancel", m.handler.Cancel)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
