package domain

import (
	"fmt"
	"time"

	"procurement_backend/platform/apperr"

	"github.com/google/uuid"
)

// PurchaseRequest is the aggregate root of the RFQ workflow. It owns its
// RfqItems: the single-SELECTED invariant and the request status are only
// touched through the methods below.
//
// The request status is derivable from the item states; it is cached on the
// aggregate so lists can filter on it without loading items.
type PurchaseRequest struct {
	ID                uuid.UUID
	RequestNumber     string
	Kind              RequestKind
	MaterialID        *uuid.UUID
	ServiceCategoryID *uuid.UUID
	Description       string
	Quantity          int64
	Unit              string
	RequiredDate      *time.Time
	Status            RequestStatus
	RequestedBy       uuid.UUID
	Items             []RfqItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewPurchaseRequest creates a request in DRAFT with no RFQ items.
func NewPurchaseRequest(requestNumber string, kind RequestKind, requestedBy uuid.UUID, now time.Time) *PurchaseRequest {
	return &PurchaseRequest{
		ID:            uuid.New(),
		RequestNumber: requestNumber,
		Kind:          kind,
		Status:        RequestStatusDraft,
		RequestedBy:   requestedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanUpdate reports whether descriptive fields may still change.
// Once the RFQ has gone out they are frozen.
func (r *PurchaseRequest) CanUpdate() bool {
	return r.Status == RequestStatusDraft
}

// CanSendRfq reports whether an RFQ round may go out.
func (r *PurchaseRequest) CanSendRfq() bool {
	return r.Status == RequestStatusDraft || r.Status == RequestStatusRfqSent
}

// CanCancel reports whether the request may still be canceled.
func (r *PurchaseRequest) CanCancel() bool {
	return !r.Status.Terminal()
}

// SendRfq moves the request to RFQ_SENT. Re-sending to add vendors to an
// in-flight round is allowed and keeps the status unchanged.
func (r *PurchaseRequest) SendRfq() error {
	if !r.CanSendRfq() {
		return illegalTransition("send rfq", r.Status)
	}
	r.Status = RequestStatusRfqSent
	return nil
}

// AddRfqItem appends a new quote line in SENT state. It never changes the
// request status; callers add vendors any time the request is not terminal,
// including after a revert.
func (r *PurchaseRequest) AddRfqItem(vendorID uuid.UUID, offeringID *uuid.UUID, now time.Time) (*RfqItem, error) {
	if r.Status.Terminal() {
		return nil, illegalTransition("add rfq item", r.Status)
	}
	item := NewRfqItem(vendorID, offeringID, now)
	r.Items = append(r.Items, item)
	return &r.Items[len(r.Items)-1], nil
}

// ItemByID locates an owned RFQ item.
func (r *PurchaseRequest) ItemByID(itemID uuid.UUID) (*RfqItem, error) {
	for idx := range r.Items {
		if r.Items[idx].ID == itemID {
			return &r.Items[idx], nil
		}
	}
	return nil, apperr.NotFound("rfq item not found")
}

// SelectedItem returns the currently selected quote line, or nil.
func (r *PurchaseRequest) SelectedItem() *RfqItem {
	for idx := range r.Items {
		if r.Items[idx].Status == RfqItemStatusSelected {
			return &r.Items[idx]
		}
	}
	return nil
}

// RecordRfqReply delegates the vendor's quote to the named item.
func (r *PurchaseRequest) RecordRfqReply(itemID uuid.UUID, priceCents int64, leadTimeDays *int, notes *string, now time.Time) error {
	item, err := r.ItemByID(itemID)
	if err != nil {
		return err
	}
	return item.RecordReply(priceCents, leadTimeDays, notes, now)
}

// MarkRfqNoResponse delegates to the named item.
func (r *PurchaseRequest) MarkRfqNoResponse(itemID uuid.UUID) error {
	item, err := r.ItemByID(itemID)
	if err != nil {
		return err
	}
	return item.MarkNoResponse()
}

// RejectRfq declines the named quote. The request status is unchanged.
func (r *PurchaseRequest) RejectRfq(itemID uuid.UUID) error {
	item, err := r.ItemByID(itemID)
	if err != nil {
		return err
	}
	return item.Reject()
}

// SelectVendor marks one replied quote as chosen and moves the request to
// VENDOR_SELECTED. Only one selection may be active at a time: selecting
// from VENDOR_SELECTED or ORDERED requires a revert first.
func (r *PurchaseRequest) SelectVendor(itemID uuid.UUID) error {
	if r.Status != RequestStatusRfqSent {
		return illegalTransition("select vendor", r.Status)
	}
	item, err := r.ItemByID(itemID)
	if err != nil {
		return err
	}
	if err := item.Select(); err != nil {
		return err
	}
	r.Status = RequestStatusVendorSelected
	return nil
}

// MarkOrdered records that a purchase order now exists for the selected quote.
func (r *PurchaseRequest) MarkOrdered() error {
	if r.Status != RequestStatusVendorSelected {
		return illegalTransition("mark ordered", r.Status)
	}
	r.Status = RequestStatusOrdered
	return nil
}

// Close records that the purchase order was received.
func (r *PurchaseRequest) Close() error {
	if r.Status != RequestStatusOrdered {
		return illegalTransition("close", r.Status)
	}
	r.Status = RequestStatusClosed
	return nil
}

// Cancel abandons the request from any non-terminal state.
func (r *PurchaseRequest) Cancel() error {
	if !r.CanCancel() {
		return illegalTransition("cancel", r.Status)
	}
	r.Status = RequestStatusCanceled
	return nil
}

// RevertVendorSelection walks the request back to RFQ_SENT after its
// purchase order was canceled: the selected item returns to REPLIED and
// every rejected item is restored as a selectable candidate. Items in SENT
// or NO_RESPONSE are untouched.
func (r *PurchaseRequest) RevertVendorSelection(itemID uuid.UUID) error {
	if r.Status != RequestStatusVendorSelected && r.Status != RequestStatusOrdered {
		return illegalTransition("revert vendor selection", r.Status)
	}
	item, err := r.ItemByID(itemID)
	if err != nil {
		return err
	}
	if item.Status != RfqItemStatusSelected {
		return apperr.Conflict(fmt.Sprintf("revert vendor selection: rfq item is %s, not the selected item", item.Status))
	}

	if err := item.Deselect(); err != nil {
		return err
	}
	for idx := range r.Items {
		if r.Items[idx].Status == RfqItemStatusRejected {
			if err := r.Items[idx].Unreject(); err != nil {
				return err
			}
		}
	}
	r.Status = RequestStatusRfqSent
	return nil
}
