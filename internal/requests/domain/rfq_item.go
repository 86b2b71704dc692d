package domain

import (
	"time"

	"procurement_backend/platform/apperr"

	"github.com/google/uuid"
)

// RfqItem is one vendor's quote line within a purchase request. It is owned
// by its PurchaseRequest; callers outside the aggregate mutate it only
// through aggregate methods.
type RfqItem struct {
	ID                 uuid.UUID
	VendorID           uuid.UUID
	VendorOfferingID   *uuid.UUID
	Status             RfqItemStatus
	QuotedPriceCents   *int64
	QuotedLeadTimeDays *int
	Notes              *string
	SentAt             time.Time
	RepliedAt          *time.Time
}

// NewRfqItem creates a quote line in SENT state for the given vendor.
func NewRfqItem(vendorID uuid.UUID, offeringID *uuid.UUID, now time.Time) RfqItem {
	return RfqItem{
		ID:               uuid.New(),
		VendorID:         vendorID,
		VendorOfferingID: offeringID,
		Status:           RfqItemStatusSent,
		SentAt:           now,
	}
}

// RecordReply stores the vendor's quote and moves the item to REPLIED.
func (i *RfqItem) RecordReply(priceCents int64, leadTimeDays *int, notes *string, now time.Time) error {
	if i.Status != RfqItemStatusSent {
		return illegalTransition("record reply", i.Status)
	}
	if priceCents < 0 {
		return apperr.Validation("quoted price must not be negative")
	}
	if leadTimeDays != nil && *leadTimeDays < 0 {
		return apperr.Validation("quoted lead time must not be negative")
	}

	i.Status = RfqItemStatusReplied
	i.QuotedPriceCents = &priceCents
	i.QuotedLeadTimeDays = leadTimeDays
	i.Notes = notes
	i.RepliedAt = &now
	return nil
}

// MarkNoResponse moves a still-unanswered item to the terminal NO_RESPONSE state.
func (i *RfqItem) MarkNoResponse() error {
	if i.Status != RfqItemStatusSent {
		return illegalTransition("mark no response", i.Status)
	}
	i.Status = RfqItemStatusNoResponse
	return nil
}

// Select marks a replied item as the chosen quote.
func (i *RfqItem) Select() error {
	if i.Status != RfqItemStatusReplied {
		return illegalTransition("select", i.Status)
	}
	i.Status = RfqItemStatusSelected
	return nil
}

// Reject declines a replied quote. The quote data is preserved so the item
// can be restored as a candidate later.
func (i *RfqItem) Reject() error {
	if i.Status != RfqItemStatusReplied {
		return illegalTransition("reject", i.Status)
	}
	i.Status = RfqItemStatusRejected
	return nil
}

// Deselect returns a selected item to REPLIED, keeping its quote data.
func (i *RfqItem) Deselect() error {
	if i.Status != RfqItemStatusSelected {
		return illegalTransition("deselect", i.Status)
	}
	i.Status = RfqItemStatusReplied
	return nil
}

// Unreject restores a rejected item to REPLIED, keeping its quote data.
func (i *RfqItem) Unreject() error {
	if i.Status != RfqItemStatusRejected {
		return illegalTransition("unreject", i.Status)
	}
	i.Status = RfqItemStatusReplied
	return nil
}
