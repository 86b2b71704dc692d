// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"procurement_backend/platform/events"
	"procurement_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// InMemoryBus is the process-local Bus used by both binaries.
type InMemoryBus = events.InMemoryBus

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Purchase Order Domain Events
// =============================================================================

// PurchaseOrderConfirmed is published when the vendor confirms a purchase
// order. Published synchronously inside the confirming transaction; the
// payables module consumes it to create the accounts-payable record.
type PurchaseOrderConfirmed struct {
	BaseEvent
	PurchaseOrderID uuid.UUID `json:"purchaseOrderId"`
	VendorID        uuid.UUID `json:"vendorId"`
	TotalAmount     int64     `json:"totalAmountCents"`
	Currency        string    `json:"currency"`
	OrderNumber     string    `json:"orderNumber"`
}

func (e PurchaseOrderConfirmed) EventName() string { return "orders.order.confirmed" }

// PurchaseOrderCanceled is published when a purchase order is canceled.
// Published synchronously inside the canceling transaction; the requests
// module consumes it to revert the originating purchase request back to
// RFQ_SENT.
type PurchaseOrderCanceled struct {
	BaseEvent
	PurchaseOrderID   uuid.UUID `json:"purchaseOrderId"`
	PurchaseRequestID uuid.UUID `json:"purchaseRequestId"`
	RfqItemID         uuid.UUID `json:"rfqItemId"`
	OrderNumber       string    `json:"orderNumber"`
}

func (e PurchaseOrderCanceled) EventName() string { return "orders.order.canceled" }

// PurchaseOrderReceived is published when goods or services for a purchase
// order are received. Consumed asynchronously for logging/notification only;
// the purchase request close happens in the receiving transaction itself.
type PurchaseOrderReceived struct {
	BaseEvent
	PurchaseOrderID   uuid.UUID `json:"purchaseOrderId"`
	PurchaseRequestID uuid.UUID `json:"purchaseRequestId"`
	OrderNumber       string    `json:"orderNumber"`
}

func (e PurchaseOrderReceived) EventName() string { return "orders.order.received" }

// =============================================================================
// Purchase Request Domain Events
// =============================================================================

// RfqSent is published after an RFQ round goes out to vendors. Consumed by
// the scheduler module to arm the response-deadline expiry task.
type RfqSent struct {
	BaseEvent
	PurchaseRequestID uuid.UUID   `json:"purchaseRequestId"`
	RequestNumber     string      `json:"requestNumber"`
	VendorIDs         []uuid.UUID `json:"vendorIds"`
	ResponseDeadline  *time.Time  `json:"responseDeadline,omitempty"`
}

func (e RfqSent) EventName() string { return "requests.rfq.sent" }
