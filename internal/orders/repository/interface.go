package repository

import (
	"context"

	"procurement_backend/internal/orders/domain"

	"github.com/google/uuid"
)

// ListParams contains parameters for listing purchase orders.
type ListParams struct {
	Status            *domain.OrderStatus
	PurchaseRequestID *uuid.UUID
	VendorID          *uuid.UUID
	Search            string
	SortBy            string
	SortOrder         string
	Page              int
	PageSize          int
}

// ListResult contains the paginated result of listing purchase orders.
type ListResult struct {
	Items      []domain.PurchaseOrder
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides persistence for purchase orders. Methods join a
// transaction carried in the context.
type Repository interface {
	Create(ctx context.Context, order *domain.PurchaseOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	Save(ctx context.Context, order *domain.PurchaseOrder) error
	// HasActiveOrderForRfqItem reports whether a non-canceled order already
	// references the RFQ item.
	HasActiveOrderForRfqItem(ctx context.Context, rfqItemID uuid.UUID) (bool, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
}
