// Package requests provides the purchase request bounded context module.
package requests

import (
	"context"
	"time"

	"procurement_backend/internal/events"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/requests/handler"
	"procurement_backend/internal/requests/repository"
	"procurement_backend/internal/requests/service"
	"procurement_backend/internal/sequence"
	"procurement_backend/platform/db"
	"procurement_backend/platform/logger"
	"procurement_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the requests module.
func NewModule(pool *pgxpool.Pool, catalog service.CatalogChecker, bus events.Bus, val *validator.Validator, log *logger.Logger, responseWindow time.Duration) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, db.NewTxManager(pool), sequence.New(pool), catalog, bus, log, responseWindow)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for the orchestration layer, which loads
// the purchase request and purchase order aggregates in one transaction.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts request routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/requests")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.POST("/:id/send-rfq", m.handler.SendRfq)
	group.POST("/:id/cancel", m.handler.Cancel)
	group.POST("/:id/items/:itemId/reply", m.handler.RecordReply)
	group.POST("/:id/items/:itemId/no-response", m.handler.MarkNoResponse)
	group.POST("/:id/items/:itemId/select", m.handler.SelectVendor)
	group.POST("/:id/items/:itemId/reject", m.handler.RejectRfq)
}

// RegisterHandlers subscribes to the order-cancellation event that reverts
// the originating request.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.PurchaseOrderCanceled{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.PurchaseOrderCanceled:
		return m.service.HandleOrderCanceled(ctx, e)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
