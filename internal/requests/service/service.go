// Package service contains the purchase request business logic.
package service

import (
	"context"
	"fmt"
	"time"

	"procurement_backend/internal/events"
	"procurement_backend/internal/requests/domain"
	"procurement_backend/internal/requests/repository"
	"procurement_backend/internal/sequence"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/db"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// CatalogChecker validates references against the catalog before any state
// mutation is attempted. Implemented by the catalog module.
type CatalogChecker interface {
	VendorActive(ctx context.Context, id uuid.UUID) (bool, error)
	MaterialExists(ctx context.Context, id uuid.UUID) (bool, error)
	ServiceCategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service implements purchase request use cases.
type Service struct {
	repo           repository.Repository
	txm            db.TxManager
	seq            sequence.Allocator
	catalog        CatalogChecker
	bus            events.Bus
	log            *logger.Logger
	responseWindow time.Duration
}

// New creates a new requests service. responseWindow is how long vendors get
// to answer an RFQ before unanswered items expire; zero disables the deadline.
func New(repo repository.Repository, txm db.TxManager, seq sequence.Allocator, catalog CatalogChecker, bus events.Bus, log *logger.Logger, responseWindow time.Duration) *Service {
	return &Service{
		repo:           repo,
		txm:            txm,
		seq:            seq,
		catalog:        catalog,
		bus:            bus,
		log:            log,
		responseWindow: responseWindow,
	}
}

// CreateParams are the inputs for creating a purchase request.
type CreateParams struct {
	Kind              domain.RequestKind
	MaterialID        *uuid.UUID
	ServiceCategoryID *uuid.UUID
	Description       string
	Quantity          int64
	Unit              string
	RequiredDate      *time.Time
	RequestedBy       uuid.UUID
}

// UpdateParams are the inputs for updating a draft purchase request.
type UpdateParams struct {
	Description  string
	Quantity     int64
	Unit         string
	RequiredDate *time.Time
}

// Create validates the catalog references, allocates a request number and
// persists a new DRAFT request.
func (s *Service) Create(ctx context.Context, params CreateParams) (*domain.PurchaseRequest, error) {
	if err := s.validateSubject(ctx, params.Kind, params.MaterialID, params.ServiceCategoryID); err != nil {
		return nil, err
	}
	if params.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	now := time.Now()
	var pr *domain.PurchaseRequest
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.seq.Next(ctx, sequence.RequestPrefix(now))
		if err != nil {
			return err
		}

		pr = domain.NewPurchaseRequest(sequence.Format(sequence.RequestPrefix(now), n), params.Kind, params.RequestedBy, now)
		pr.MaterialID = params.MaterialID
		pr.ServiceCategoryID = params.ServiceCategoryID
		pr.Description = params.Description
		pr.Quantity = params.Quantity
		pr.Unit = params.Unit
		pr.RequiredDate = params.RequiredDate

		return s.repo.Create(ctx, pr)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase request created", "requestId", pr.ID, "requestNumber", pr.RequestNumber)
	return pr, nil
}

// Update changes the descriptive fields of a draft request. Once the RFQ
// has gone out the fields are frozen.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*domain.PurchaseRequest, error) {
	if params.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	var pr *domain.PurchaseRequest
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		pr, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !pr.CanUpdate() {
			return apperr.Conflict(fmt.Sprintf("update not allowed in status %s", pr.Status))
		}

		pr.Description = params.Description
		pr.Quantity = params.Quantity
		pr.Unit = params.Unit
		pr.RequiredDate = params.RequiredDate
		pr.UpdatedAt = time.Now()

		return s.repo.Save(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

// SendRfq sends (or extends) an RFQ round: one new RFQ item per vendor, the
// request moves to RFQ_SENT. Vendors are validated against the catalog
// before the aggregate is touched.
func (s *Service) SendRfq(ctx context.Context, id uuid.UUID, vendorIDs []uuid.UUID) (*domain.PurchaseRequest, error) {
	if len(vendorIDs) == 0 {
		return nil, apperr.Validation("at least one vendor is required")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, vendorID := range vendorIDs {
		vendorID := vendorID
		g.Go(func() error {
			active, err := s.catalog.VendorActive(gctx, vendorID)
			if err != nil {
				return err
			}
			if !active {
				return apperr.NotFound(fmt.Sprintf("vendor %s not found or inactive", vendorID))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now()
	var pr *domain.PurchaseRequest
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		pr, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := pr.SendRfq(); err != nil {
			return err
		}
		for _, vendorID := range vendorIDs {
			if _, err := pr.AddRfqItem(vendorID, nil, now); err != nil {
				return err
			}
		}
		pr.UpdatedAt = now
		return s.repo.Save(ctx, pr)
	})
	if err != nil {
		return nil, err
	}

	var deadline *time.Time
	if s.responseWindow > 0 {
		d := now.Add(s.responseWindow)
		deadline = &d
	}
	s.bus.Publish(ctx, events.RfqSent{
		BaseEvent:         events.NewBaseEvent(),
		PurchaseRequestID: pr.ID,
		RequestNumber:     pr.RequestNumber,
		VendorIDs:         vendorIDs,
		ResponseDeadline:  deadline,
	})

	s.log.Info("rfq sent", "requestId", pr.ID, "vendors", len(vendorIDs))
	return pr, nil
}

// RecordRfqReply stores one vendor's quote on the named RFQ item.
func (s *Service) RecordRfqReply(ctx context.Context, id, itemID uuid.UUID, priceCents int64, leadTimeDays *int, notes *string) (*domain.PurchaseRequest, error) {
	return s.mutate(ctx, id, func(pr *domain.PurchaseRequest) error {
		return pr.RecordRfqReply(itemID, priceCents, leadTimeDays, notes, time.Now())
	})
}

// MarkRfqNoResponse expires one unanswered RFQ item.
func (s *Service) MarkRfqNoResponse(ctx context.Context, id, itemID uuid.UUID) (*domain.PurchaseRequest, error) {
	return s.mutate(ctx, id, func(pr *domain.PurchaseRequest) error {
		return pr.MarkRfqNoResponse(itemID)
	})
}

// SelectVendor marks the named replied quote as chosen.
func (s *Service) SelectVendor(ctx context.Context, id, itemID uuid.UUID) (*domain.PurchaseRequest, error) {
	return s.mutate(ctx, id, func(pr *domain.PurchaseRequest) error {
		return pr.SelectVendor(itemID)
	})
}

// RejectRfq declines the named replied quote.
func (s *Service) RejectRfq(ctx context.Context, id, itemID uuid.UUID) (*domain.PurchaseRequest, error) {
	return s.mutate(ctx, id, func(pr *domain.PurchaseRequest) error {
		return pr.RejectRfq(itemID)
	})
}

// Cancel abandons the request.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*domain.PurchaseRequest, error) {
	return s.mutate(ctx, id, func(pr *domain.PurchaseRequest) error {
		return pr.Cancel()
	})
}

// Get loads one request with its RFQ items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.PurchaseRequest, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns request headers matching the filters.
func (s *Service) List(ctx context.Context, params repository.ListParams) (repository.ListResult, error) {
	return s.repo.List(ctx, params)
}

// ExpireUnansweredRfq marks every still-SENT item of the request as
// NO_RESPONSE. Invoked by the scheduler worker when the response deadline
// passes; requests that already left RFQ_SENT are skipped.
func (s *Service) ExpireUnansweredRfq(ctx context.Context, id uuid.UUID) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		pr, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if pr.Status.Terminal() {
			return nil
		}

		expired := 0
		for idx := range pr.Items {
			if pr.Items[idx].Status == domain.RfqItemStatusSent {
				if err := pr.Items[idx].MarkNoResponse(); err != nil {
					return err
				}
				expired++
			}
		}
		if expired == 0 {
			return nil
		}

		pr.UpdatedAt = time.Now()
		if err := s.repo.Save(ctx, pr); err != nil {
			return err
		}
		s.log.Info("rfq items expired", "requestId", pr.ID, "expired", expired)
		return nil
	})
}

// HandleOrderCanceled walks the originating request back to RFQ_SENT after
// its purchase order was canceled. It runs inside the canceling transaction
// (the event is published synchronously), so the reverted request commits or
// rolls back together with the order.
//
// A request no longer in VENDOR_SELECTED or ORDERED cannot be reverted:
// either an earlier delivery of the same event already did the work, or the
// request was canceled or closed in the meantime. Both are no-ops, not
// errors; failing here would roll back the order cancellation and wedge the
// order in its current status.
func (s *Service) HandleOrderCanceled(ctx context.Context, e events.PurchaseOrderCanceled) error {
	return s.txm.WithinTx(ctx, func(ctx context.Context) error {
		pr, err := s.repo.GetByID(ctx, e.PurchaseRequestID)
		if err != nil {
			return err
		}
		if pr.Status != domain.RequestStatusVendorSelected && pr.Status != domain.RequestStatusOrdered {
			s.log.Info("purchase request not revertible, skipping",
				"requestId", pr.ID, "status", pr.Status, "orderNumber", e.OrderNumber)
			return nil
		}

		if err := pr.RevertVendorSelection(e.RfqItemID); err != nil {
			return err
		}
		pr.UpdatedAt = time.Now()
		if err := s.repo.Save(ctx, pr); err != nil {
			return err
		}

		s.log.Info("purchase request reverted after order cancellation",
			"requestId", pr.ID, "orderNumber", e.OrderNumber)
		return nil
	})
}

// mutate loads the aggregate, applies fn and saves, all in one transaction.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(pr *domain.PurchaseRequest) error) (*domain.PurchaseRequest, error) {
	var pr *domain.PurchaseRequest
	err := s.txm.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		pr, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(pr); err != nil {
			return err
		}
		pr.UpdatedAt = time.Now()
		return s.repo.Save(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func (s *Service) validateSubject(ctx context.Context, kind domain.RequestKind, materialID, serviceCategoryID *uuid.UUID) error {
	switch kind {
	case domain.RequestKindMaterial:
		if materialID == nil {
			return apperr.Validation("material id is required for material requests")
		}
		exists, err := s.catalog.MaterialExists(ctx, *materialID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("material not found")
		}
	case domain.RequestKindService:
		if serviceCategoryID == nil {
			return apperr.Validation("service category id is required for service requests")
		}
		exists, err := s.catalog.ServiceCategoryExists(ctx, *serviceCategoryID)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.NotFound("service category not found")
		}
	default:
		return apperr.Validation(fmt.Sprintf("unknown request kind %q", kind))
	}
	return nil
}
