package transport

import (
	"time"

	"procurement_backend/internal/payables/repository"

	"github.com/google/uuid"
)

// AccountsPayableResponse is the API representation of a payable.
type AccountsPayableResponse struct {
	ID               uuid.UUID `json:"id"`
	PurchaseOrderID  uuid.UUID `json:"purchaseOrderId"`
	VendorID         uuid.UUID `json:"vendorId"`
	TotalAmountCents int64     `json:"totalAmountCents"`
	Currency         string    `json:"currency"`
	OrderNumber      string    `json:"orderNumber"`
	CreatedAt        time.Time `json:"createdAt"`
}

// ListPayablesResponse is the paginated list response.
type ListPayablesResponse struct {
	Items      []AccountsPayableResponse `json:"items"`
	Total      int                       `json:"total"`
	Page       int                       `json:"page"`
	PageSize   int                       `json:"pageSize"`
	TotalPages int                       `json:"totalPages"`
}

// ToResponse maps a payable to its API representation.
func ToResponse(ap *repository.AccountsPayable) AccountsPayableResponse {
	return AccountsPayableResponse{
		ID:               ap.ID,
		PurchaseOrderID:  ap.PurchaseOrderID,
		VendorID:         ap.VendorID,
		TotalAmountCents: ap.TotalAmountCents,
		Currency:         ap.Currency,
		OrderNumber:      ap.OrderNumber,
		CreatedAt:        ap.CreatedAt,
	}
}

// ToListResponse maps a repository list result to the API representation.
func ToListResponse(res repository.ListResult) ListPayablesResponse {
	items := make([]AccountsPayableResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, ToResponse(&res.Items[i]))
	}
	return ListPayablesResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	}
}
