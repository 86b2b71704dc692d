// Package domain holds the purchase request aggregate and its embedded
// RFQ item state machine. All mutation goes through aggregate methods so
// the status invariants cannot be bypassed.
package domain

// RequestStatus is the lifecycle status of a purchase request.
type RequestStatus string

const (
	RequestStatusDraft          RequestStatus = "DRAFT"
	RequestStatusRfqSent        RequestStatus = "RFQ_SENT"
	RequestStatusVendorSelected RequestStatus = "VENDOR_SELECTED"
	RequestStatusOrdered        RequestStatus = "ORDERED"
	RequestStatusClosed         RequestStatus = "CLOSED"
	RequestStatusCanceled       RequestStatus = "CANCELED"
)

// Terminal reports whether no further transitions are possible.
func (s RequestStatus) Terminal() bool {
	return s == RequestStatusClosed || s == RequestStatusCanceled
}

// RequestKind discriminates what a purchase request procures.
type RequestKind string

const (
	RequestKindMaterial RequestKind = "MATERIAL"
	RequestKindService  RequestKind = "SERVICE"
)

// RfqItemStatus is the status of one vendor's quote line within a request.
type RfqItemStatus string

const (
	RfqItemStatusSent       RfqItemStatus = "SENT"
	RfqItemStatusReplied    RfqItemStatus = "REPLIED"
	RfqItemStatusSelected   RfqItemStatus = "SELECTED"
	RfqItemStatusRejected   RfqItemStatus = "REJECTED"
	RfqItemStatusNoResponse RfqItemStatus = "NO_RESPONSE"
)
