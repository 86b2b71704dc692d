package service

import (
	"context"
	"testing"

	"procurement_backend/internal/events"
	"procurement_backend/internal/payables/repository"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	byOrder map[uuid.UUID]*repository.AccountsPayable
	creates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byOrder: make(map[uuid.UUID]*repository.AccountsPayable)}
}

func (f *fakeRepo) Create(_ context.Context, ap *repository.AccountsPayable) error {
	f.creates++
	f.byOrder[ap.PurchaseOrderID] = ap
	return nil
}

func (f *fakeRepo) ExistsForOrder(_ context.Context, orderID uuid.UUID) (bool, error) {
	_, ok := f.byOrder[orderID]
	return ok, nil
}

func (f *fakeRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) (*repository.AccountsPayable, error) {
	return f.byOrder[orderID], nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) (repository.ListResult, error) {
	return repository.ListResult{}, nil
}

func confirmedEvent() events.PurchaseOrderConfirmed {
	return events.PurchaseOrderConfirmed{
		BaseEvent:       events.NewBaseEvent(),
		PurchaseOrderID: uuid.New(),
		VendorID:        uuid.New(),
		TotalAmount:     125000,
		Currency:        "EUR",
		OrderNumber:     "PO-2026-0001",
	}
}

func TestHandleOrderConfirmedCreatesPayable(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))
	e := confirmedEvent()

	if err := svc.HandleOrderConfirmed(context.Background(), e); err != nil {
		t.Fatalf("HandleOrderConfirmed: %v", err)
	}

	ap := repo.byOrder[e.PurchaseOrderID]
	if ap == nil {
		t.Fatal("expected payable to be created")
	}
	if ap.VendorID != e.VendorID {
		t.Errorf("vendor = %s, want %s", ap.VendorID, e.VendorID)
	}
	if ap.TotalAmountCents != 125000 {
		t.Errorf("total = %d, want 125000", ap.TotalAmountCents)
	}
	if ap.OrderNumber != "PO-2026-0001" {
		t.Errorf("order number = %q, want PO-2026-0001", ap.OrderNumber)
	}
}

func TestHandleOrderConfirmedIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, logger.New("test"))
	e := confirmedEvent()

	for i := 0; i < 3; i++ {
		if err := svc.HandleOrderConfirmed(context.Background(), e); err != nil {
			t.Fatalf("delivery %d: %v", i+1, err)
		}
	}

	if repo.creates != 1 {
		t.Fatalf("creates = %d, want exactly 1", repo.creates)
	}
}
