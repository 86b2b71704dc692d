package transport

import (
	"time"

	"procurement_backend/internal/orders/domain"
	"procurement_backend/internal/orders/repository"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateOrderRequest is the request body for creating a purchase order from
// a vendor quote.
type CreateOrderRequest struct {
	RfqItemID            uuid.UUID `json:"rfqItemId" validate:"required"`
	OrderDate            time.Time `json:"orderDate" validate:"required"`
	ExpectedDeliveryDate time.Time `json:"expectedDeliveryDate" validate:"required"`
	Notes                *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateOrderRequest is the request body for updating a draft order.
type UpdateOrderRequest struct {
	OrderDate            time.Time `json:"orderDate" validate:"required"`
	ExpectedDeliveryDate time.Time `json:"expectedDeliveryDate" validate:"required"`
	Notes                *string   `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// OrderResponse is the API representation of a purchase order.
type OrderResponse struct {
	ID                   uuid.UUID `json:"id"`
	OrderNumber          string    `json:"orderNumber"`
	PurchaseRequestID    uuid.UUID `json:"purchaseRequestId"`
	RfqItemID            uuid.UUID `json:"rfqItemId"`
	VendorID             uuid.UUID `json:"vendorId"`
	OrderDate            time.Time `json:"orderDate"`
	ExpectedDeliveryDate time.Time `json:"expectedDeliveryDate"`
	TotalAmountCents     int64     `json:"totalAmountCents"`
	Currency             string    `json:"currency"`
	Status               string    `json:"status"`
	Notes                *string   `json:"notes,omitempty"`
	CreatedBy            uuid.UUID `json:"createdBy"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// ListOrdersResponse is the paginated list response.
type ListOrdersResponse struct {
	Items      []OrderResponse `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

// ToResponse maps a purchase order to its API representation.
func ToResponse(order *domain.PurchaseOrder) OrderResponse {
	return OrderResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		PurchaseRequestID:    order.PurchaseRequestID,
		RfqItemID:            order.RfqItemID,
		VendorID:             order.VendorID,
		OrderDate:            order.OrderDate,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		TotalAmountCents:     order.TotalAmountCents,
		Currency:             order.Currency,
		Status:               string(order.Status),
		Notes:                order.Notes,
		CreatedBy:            order.CreatedBy,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// ToListResponse maps a repository list result to the API representation.
func ToListResponse(res repository.ListResult) ListOrdersResponse {
	items := make([]OrderResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, ToResponse(&res.Items[i]))
	}
	return ListOrdersResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalPages: res.TotalPages,
	}
}
