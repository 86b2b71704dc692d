// Package domain holds the purchase order aggregate. The order references
// its purchase request and the winning RFQ item by id only; the orders
// service performs explicit lookups when both sides are needed.
package domain

import (
	"fmt"
	"time"

	"procurement_backend/platform/apperr"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle status of a purchase order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusSent      OrderStatus = "SENT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

func (s OrderStatus) String() string { return string(s) }

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusReceived || s == OrderStatusCanceled
}

// PurchaseOrder is the binding order issued to the vendor whose quote won.
// TotalAmountCents is a snapshot of the quoted price at creation time, not
// a live link to the RFQ item.
type PurchaseOrder struct {
	ID                   uuid.UUID
	OrderNumber          string
	PurchaseRequestID    uuid.UUID
	RfqItemID            uuid.UUID
	VendorID             uuid.UUID
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	TotalAmountCents     int64
	Currency             string
	Status               OrderStatus
	Notes                *string
	CreatedBy            uuid.UUID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewPurchaseOrder creates an order in DRAFT. Delivery must not predate the
// order date.
func NewPurchaseOrder(orderNumber string, requestID, rfqItemID, vendorID, createdBy uuid.UUID, orderDate, deliveryDate time.Time, totalCents int64, currency string, notes *string, now time.Time) (*PurchaseOrder, error) {
	if deliveryDate.Before(orderDate) {
		return nil, apperr.Validation("expected delivery date must not be before the order date")
	}

	return &PurchaseOrder{
		ID:                   uuid.New(),
		OrderNumber:          orderNumber,
		PurchaseRequestID:    requestID,
		RfqItemID:            rfqItemID,
		VendorID:             vendorID,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: deliveryDate,
		TotalAmountCents:     totalCents,
		Currency:             currency,
		Status:               OrderStatusDraft,
		Notes:                notes,
		CreatedBy:            createdBy,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// CanUpdate reports whether descriptive fields may still change.
func (o *PurchaseOrder) CanUpdate() bool {
	return o.Status == OrderStatusDraft
}

// Send issues the order to the vendor.
func (o *PurchaseOrder) Send() error {
	if o.Status != OrderStatusDraft {
		return illegalTransition("send", o.Status)
	}
	o.Status = OrderStatusSent
	return nil
}

// Confirm records the vendor's confirmation of a sent order.
func (o *PurchaseOrder) Confirm() error {
	if o.Status != OrderStatusSent {
		return illegalTransition("confirm", o.Status)
	}
	o.Status = OrderStatusConfirmed
	return nil
}

// Receive records delivery of a confirmed order.
func (o *PurchaseOrder) Receive() error {
	if o.Status != OrderStatusConfirmed {
		return illegalTransition("receive", o.Status)
	}
	o.Status = OrderStatusReceived
	return nil
}

// Cancel voids the order. Allowed until the goods are received.
func (o *PurchaseOrder) Cancel() error {
	switch o.Status {
	case OrderStatusDraft, OrderStatusSent, OrderStatusConfirmed:
		o.Status = OrderStatusCanceled
		return nil
	default:
		return illegalTransition("cancel", o.Status)
	}
}

func illegalTransition(op string, status fmt.Stringer) *apperr.Error {
	return apperr.Conflict(fmt.Sprintf("%s not allowed in status %s", op, status))
}
