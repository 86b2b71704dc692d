// Package payables provides the accounts-payable bounded context module.
package payables

import (
	"context"

	"procurement_backend/internal/events"
	apphttp "procurement_backend/internal/http"
	"procurement_backend/internal/payables/handler"
	"procurement_backend/internal/payables/repository"
	"procurement_backend/internal/payables/service"
	"procurement_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the payables bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the payables module.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "payables"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts payables routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/payables")
	group.GET("", m.handler.List)
	group.GET("/by-order/:orderId", m.handler.GetByOrderID)
}

// RegisterHandlers subscribes to the order-confirmation event that drives
// payable creation.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.PurchaseOrderConfirmed{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.PurchaseOrderConfirmed:
		return m.service.HandleOrderConfirmed(ctx, e)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
