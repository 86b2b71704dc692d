// Package service contains the purchase order business logic, including the
// orchestration protocols that keep the order and its originating purchase
// request consistent. This is the only layer that loads both aggregates in
// one logical operation.
package service

import (
	"context"
	"fmt"
	"time"

	"procurement_backend/internal/events"
	"procurement_backend/internal/orders/domain"
	"procurement_backend/internal/orders/repository"
	reqdomain "procurement_backend/internal/requests/domain"
	"procurement_backend/internal/sequence"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/db"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// RequestStore is the slice of the requests repository the orchestration
// needs. Methods join the transaction carried in the context, so request
// and order writes commit as one unit.
type RequestStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*reqdomain.PurchaseRequest, error)
	GetByRfqItemID(ctx context.Context, itemID uuid.UUID) (*reqdomain.PurchaseRequest, error)
	Save(ctx context.Context, pr *reqdomain.PurchaseRequest) error
}

// Service implements purchase order use cases.
type Service struct {
	repo     repository.Repository
	requests RequestStore
	txm      db.TxManager
	seq      sequence.Allocator
	bus      events.Bus
	log      *logger.Logger
	currency string
}

// New creates a new orders service.
func New(repo repository.Repository, requests RequestStore, txm db.TxManager, seq sequence.Allocator, bus events.Bus, log *logger.Logger, currency string) *Service {
	return &Service{
		repo:     repo,
		requests: requests,
		txm:      txm,
		seq:      seq,
		bus:      bus,
		log:      log,
		currency: currency,
	}
}

// CreateParams are the inputs for creating a purchase order.
type CreateParams struct {
	RfqItemID            uuid.UUID
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	Notes                *string
	CreatedBy            uuid.UUID
}

// UpdateParams are the inputs for updating a draft purchase order.
type UpdateParams struct {
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	Notes                *string
}

// Create converts a vendor quote into a purchase order. The target RFQ item
// must be REPLIED or SELECTED and must not already have an active order; a
// REPLIED item is selected on the way. The order insert and the request's
// move to ORDERED are one atomic unit.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domain.PurchaseOrder, error) {
	now := time.Now()
	var order *domain.PurchaseOrder
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		pr, err := s.requests.GetByRfqItemID(ctx, params.RfqItemID)
		if err != nil {
			return err
		}
		item, err := pr.ItemByID(params.RfqItemID)
		if err != nil {
			return err
		}

		switch item.Status {
		case reqdomain.RfqItemStatusSelected:
			// Already the chosen quote.
		case reqdomain.RfqItemStatusReplied:
			if err := pr.SelectVendor(item.ID); err != nil {
				return err
			}
		default:
			return apperr.Conflict(fmt.Sprintf("create purchase order not allowed for rfq item in status %s", item.Status))
		}
		if item.QuotedPriceCents == nil {
			return apperr.Conflict("rfq item has no quoted price")
		}

		active, err := s.repo.HasActiveOrderForRfqItem(ctx, item.ID)
		if err != nil {
			return err
		}
		if active {
			return apperr.Conflict("an active purchase order already exists for this rfq item")
		}

		n, err := s.seq.Next(ctx, sequence.OrderPrefix(now))
		if err != nil {
			return err
		}

		order, err = domain.NewPurchaseOrder(
			sequence.Format(sequence.OrderPrefix(now), n),
			pr.ID, item.ID, item.VendorID, params.CreatedBy,
			params.OrderDate, params.ExpectedDeliveryDate,
			*item.QuotedPriceCents, s.currency, params.Notes, now,
		)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, order); err != nil {
			return err
		}

		if err := pr.MarkOrdered(); err != nil {
			return err
		}
		pr.UpdatedAt = now
		return s.requests.Save(ctx, pr)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order created",
		"orderId", order.ID, "orderNumber", order.OrderNumber, "requestId", order.PurchaseRequestID)
	return order, nil
}

// Update changes the descriptive fields of a draft order.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*domain.PurchaseOrder, error) {
	if params.ExpectedDeliveryDate.Before(params.OrderDate) {
		return nil, apperr.Validation("expected delivery date must not be before the order date")
	}

	var order *domain.PurchaseOrder
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.CanUpdate() {
			return apperr.Conflict(fmt.Sprintf("update not allowed in status %s", order.Status))
		}

		order.OrderDate = params.OrderDate
		order.ExpectedDeliveryDate = params.ExpectedDeliveryDate
		order.Notes = params.Notes
		order.UpdatedAt = time.Now()
		return s.repo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Send issues the order to the vendor.
func (s *Service) Send(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	return s.transition(ctx, id, (*domain.PurchaseOrder).Send)
}

// Confirm records the vendor's confirmation. The confirmation event is
// published synchronously inside the transaction, so the accounts-payable
// record it triggers commits together with the status change or not at all.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	var order *domain.PurchaseOrder
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		if err := s.repo.Save(ctx, order); err != nil {
			return err
		}

		return s.bus.PublishSync(ctx, events.PurchaseOrderConfirmed{
			BaseEvent:       events.NewBaseEvent(),
			PurchaseOrderID: order.ID,
			VendorID:        order.VendorID,
			TotalAmount:     order.TotalAmountCents,
			Currency:        order.Currency,
			OrderNumber:     order.OrderNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order confirmed", "orderId", order.ID, "orderNumber", order.OrderNumber)
	return order, nil
}

// Receive records delivery of the goods or services. The order moves to
// RECEIVED and the originating request closes, atomically.
func (s *Service) Receive(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	var order *domain.PurchaseOrder
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Receive(); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		if err := s.repo.Save(ctx, order); err != nil {
			return err
		}

		pr, err := s.requests.GetByID(ctx, order.PurchaseRequestID)
		if err != nil {
			return err
		}
		if err := pr.Close(); err != nil {
			return err
		}
		pr.UpdatedAt = time.Now()
		return s.requests.Save(ctx, pr)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.PurchaseOrderReceived{
		BaseEvent:         events.NewBaseEvent(),
		PurchaseOrderID:   order.ID,
		PurchaseRequestID: order.PurchaseRequestID,
		OrderNumber:       order.OrderNumber,
	})

	s.log.Info("purchase order received", "orderId", order.ID, "orderNumber", order.OrderNumber)
	return order, nil
}

// Cancel voids the order. The cancellation event is published synchronously
// inside the transaction; its handler walks the originating request back to
// RFQ_SENT, so order and request revert commit as one unit.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	var order *domain.PurchaseOrder
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		if err := s.repo.Save(ctx, order); err != nil {
			return err
		}

		return s.bus.PublishSync(ctx, events.PurchaseOrderCanceled{
			BaseEvent:         events.NewBaseEvent(),
			PurchaseOrderID:   order.ID,
			PurchaseRequestID: order.PurchaseRequestID,
			RfqItemID:         order.RfqItemID,
			OrderNumber:       order.OrderNumber,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase order canceled", "orderId", order.ID, "orderNumber", order.OrderNumber)
	return order, nil
}

// Get loads one order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns orders matching the filters.
func (s *Service) List(ctx context.Context, params repository.ListParams) (repository.ListResult, error) {
	return s.repo.List(ctx, params)
}

// transition loads the order, applies fn and saves, all in one transaction.
func (s *Service) transition(ctx context.Context, id uuid.UUID, fn func(*domain.PurchaseOrder) error) (*domain.PurchaseOrder, error) {
	var order *domain.PurchaseOrder
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		return s.repo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
