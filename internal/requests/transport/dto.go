package transport

import (
	"time"

	"procurement_backend/internal/requests/domain"
	"procurement_backend/internal/requests/repository"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateRequestRequest is the request body for creating a purchase request.
type CreateRequestRequest struct {
	Kind              string     `json:"kind" validate:"required,oneof=MATERIAL SERVICE"`
	MaterialID        *uuid.UUID `json:"materialId,omitempty"`
	ServiceCategoryID *uuid.UUID `json:"serviceCategoryId,omitempty"`
	Description       string     `json:"description" validate:"required,min=1,max=2000"`
	Quantity          int64      `json:"quantity" validate:"required,min=1"`
	Unit              string     `json:"unit" validate:"max=50"`
	RequiredDate      *time.Time `json:"requiredDate,omitempty"`
}

// UpdateRequestRequest is the request body for updating a draft request.
type UpdateRequestRequest struct {
	Description  string     `json:"description" validate:"required,min=1,max=2000"`
	Quantity     int64      `json:"quantity" validate:"required,min=1"`
	Unit         string     `json:"unit" validate:"max=50"`
	RequiredDate *time.Time `json:"requiredDate,omitempty"`
}

// SendRfqRequest is the request body for sending an RFQ round.
type SendRfqRequest struct {
	VendorIDs []uuid.UUID `json:"vendorIds" validate:"required,min=1,dive,required"`
}

// RecordReplyRequest is the request body for recording a vendor's quote.
type RecordReplyRequest struct {
	QuotedPriceCents   int64   `json:"quotedPriceCents" validate:"min=0"`
	QuotedLeadTimeDays *int    `json:"quotedLeadTimeDays,omitempty" validate:"omitempty,min=0"`
	Notes              *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// RfqItemResponse is the API representation of one vendor's quote line.
type RfqItemResponse struct {
	ID                 uuid.UUID  `json:"id"`
	VendorID           uuid.UUID  `json:"vendorId"`
	VendorOfferingID   *uuid.UUID `json:"vendorOfferingId,omitempty"`
	Status             string     `json:"status"`
	QuotedPriceCents   *int64     `json:"quotedPriceCents,omitempty"`
	QuotedLeadTimeDays *int       `json:"quotedLeadTimeDays,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
	SentAt             time.Time  `json:"sentAt"`
	RepliedAt          *time.Time `json:"repliedAt,omitempty"`
}

// RequestResponse is the API representation of a purchase request.
type RequestResponse struct {
	ID                uuid.UUID         `json:"id"`
	RequestNumber     string            `json:"requestNumber"`
	Kind              string            `json:"kind"`
	MaterialID        *uuid.UUID        `json:"materialId,omitempty"`
	ServiceCategoryID *uuid.UUID        `json:"serviceCategoryId,omitempty"`
	Description       string            `json:"description"`
	Quantity          int64             `json:"quantity"`
	Unit              string            `json:"unit"`
	RequiredDate      *time.Time        `json:"requiredDate,omitempty"`
	Status            string            `json:"status"`
	RequestedBy       uuid.UUID         `json:"requestedBy"`
	Items             []RfqItemResponse `json:"items"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// ListRequestsResponse is the paginated list response.
type ListRequestsResponse struct {
	Items      []RequestResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// ToResponse maps a purchase request aggregate to its API representation.
func ToResponse(pr *domain.PurchaseRequest) RequestResponse {
	items := make([]RfqItemResponse, 0, len(pr.Items))
	for idx := range pr.Items {
		item := &pr.Items[idx]
		items = append(items, RfqItemResponse{
			ID:                 item.ID,
			VendorID:           item.VendorID,
			VendorOfferingID:   item.VendorOfferingID,
			Status:             string(item.Status),
			QuotedPriceCents:   item.QuotedPriceCents,
			QuotedLeadTimeDays: item.QuotedLeadTimeDays,
			Notes:              item.Notes,
			SentAt:             item.SentAt,
			RepliedAt:          item.RepliedAt,
		})
	}

	return RequestResponse{
		ID:                pr.ID,
		RequestNumber:     pr.RequestNumber,
		Kind:              string(pr.Kind),
		MaterialID:        pr.MaterialID,
		ServiceCategoryID: pr.ServiceCategoryID,
		Description:       pr.Description,
		Quantity:          pr.Quantity,
		Unit:              pr.Unit,
		RequiredDate:      pr.RequiredDate,
		Status:            string(pr.Status),
		RequestedBy:       pr.RequestedBy,
		Items:             items,
		CreatedAt:         pr.CreatedAt,
		UpdatedAt:         pr.UpdatedAt,
	}
}

// ToListResponse maps a repository list result to the API representation.
func ToListResponse(res repository.ListResult) ListRequestsResponse {
	items := make([]RequestResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, ToResponse(&res.Items[i]))
	}
	return ListRequestsResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	}
}
