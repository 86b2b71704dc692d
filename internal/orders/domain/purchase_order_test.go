package domain

import (
	"testing"
	"time"

	"procurement_backend/platform/apperr"

	"github.com/google/uuid"
)

func newTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	now := time.Now()
	order, err := NewPurchaseOrder("PO-2025-0001", uuid.New(), uuid.New(), uuid.New(), uuid.New(), now, now.AddDate(0, 0, 14), 125000, "EUR", nil, now)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return order
}

func TestNewPurchaseOrder_RejectsDeliveryBeforeOrderDate(t *testing.T) {
	now := time.Now()
	_, err := NewPurchaseOrder("PO-2025-0002", uuid.New(), uuid.New(), uuid.New(), uuid.New(), now, now.AddDate(0, 0, -1), 100, "EUR", nil, now)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	order := newTestOrder(t)
	if order.Status != OrderStatusDraft {
		t.Fatalf("expected DRAFT, got %s", order.Status)
	}
	if !order.CanUpdate() {
		t.Fatalf("draft order must be updatable")
	}

	if err := order.Send(); err != nil {
		t.Fatalf("send: %v", err)
	}
	if order.CanUpdate() {
		t.Fatalf("sent order must be frozen")
	}
	if err := order.Confirm(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := order.Receive(); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if order.Status != OrderStatusReceived {
		t.Fatalf("expected RECEIVED, got %s", order.Status)
	}
}

func TestPurchaseOrder_ConfirmRequiresSent(t *testing.T) {
	order := newTestOrder(t)
	err := order.Confirm()
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("confirm on a never-sent order must conflict, got %v", err)
	}
	if order.Status != OrderStatusDraft {
		t.Fatalf("status must not change on guard failure")
	}
}

func TestPurchaseOrder_ReceiveRequiresConfirmed(t *testing.T) {
	order := newTestOrder(t)
	if err := order.Receive(); err == nil {
		t.Fatalf("receive from DRAFT must fail")
	}
	if err := order.Send(); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := order.Receive(); err == nil {
		t.Fatalf("receive from SENT must fail")
	}
}

func TestPurchaseOrder_CancelWindows(t *testing.T) {
	// cancellable from DRAFT, SENT and CONFIRMED
	for _, advance := range []int{0, 1, 2} {
		order := newTestOrder(t)
		if advance >= 1 {
			if err := order.Send(); err != nil {
				t.Fatalf("send: %v", err)
			}
		}
		if advance >= 2 {
			if err := order.Confirm(); err != nil {
				t.Fatalf("confirm: %v", err)
			}
		}
		if err := order.Cancel(); err != nil {
			t.Fatalf("cancel after %d transitions: %v", advance, err)
		}
		if order.Status != OrderStatusCanceled {
			t.Fatalf("expected CANCELED, got %s", order.Status)
		}
		if err := order.Cancel(); err == nil {
			t.Fatalf("double cancel must fail")
		}
	}

	// not cancellable once received
	order := newTestOrder(t)
	if err := order.Send(); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := order.Confirm(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := order.Receive(); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if err := order.Cancel(); err == nil {
		t.Fatalf("cancel of a RECEIVED order must fail")
	}
}
