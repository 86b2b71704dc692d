// Package service contains the payables business logic.
package service

import (
	"context"
	"time"

	"procurement_backend/internal/events"
	"procurement_backend/internal/payables/repository"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// Service implements accounts-payable use cases.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new payables service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// HandleOrderConfirmed creates the accounts-payable record for a confirmed
// purchase order. It runs inside the confirming transaction (the event is
// published synchronously), so a returned error rolls the confirmation back.
//
// The existence check makes the operation idempotent: re-delivery of the
// confirmation event is a no-op rather than a duplicate payable. The unique
// index on purchase_order_id backs the same guarantee at the storage level.
func (s *Service) HandleOrderConfirmed(ctx context.Context, e events.PurchaseOrderConfirmed) error {
	exists, err := s.repo.ExistsForOrder(ctx, e.PurchaseOrderID)
	if err != nil {
		return err
	}
	if exists {
		s.log.Info("accounts payable already exists, skipping",
			"purchaseOrderId", e.PurchaseOrderID,
			"orderNumber", e.OrderNumber)
		return nil
	}

	ap := &repository.AccountsPayable{
		ID:               uuid.New(),
		PurchaseOrderID:  e.PurchaseOrderID,
		VendorID:         e.VendorID,
		TotalAmountCents: e.TotalAmount,
		Currency:         e.Currency,
		OrderNumber:      e.OrderNumber,
		CreatedAt:        time.Now(),
	}
	if err := s.repo.Create(ctx, ap); err != nil {
		return err
	}

	s.log.Info("accounts payable created",
		"payableId", ap.ID,
		"purchaseOrderId", ap.PurchaseOrderID,
		"totalAmountCents", ap.TotalAmountCents)
	return nil
}

// GetByOrderID returns the payable created for a purchase order.
func (s *Service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*repository.AccountsPayable, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

// List returns payables, optionally filtered by vendor.
func (s *Service) List(ctx context.Context, params repository.ListParams) (repository.ListResult, error) {
	return s.repo.List(ctx, params)
}
