package repository

import (
	"context"

	"procurement_backend/internal/requests/domain"

	"github.com/google/uuid"
)

// ListParams contains parameters for listing purchase requests.
type ListParams struct {
	Status    *domain.RequestStatus
	Kind      *domain.RequestKind
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ListResult contains the paginated result of listing purchase requests.
// Items are header-only: RFQ items are loaded with the single aggregate.
type ListResult struct {
	Items      []domain.PurchaseRequest
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides persistence for the purchase request aggregate.
// Every method joins a transaction carried in the context, so aggregate
// loads and saves can share a transaction with purchase order writes.
type Repository interface {
	// Create inserts the aggregate header and its items.
	Create(ctx context.Context, pr *domain.PurchaseRequest) error
	// GetByID loads the aggregate with all its RFQ items.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseRequest, error)
	// GetByRfqItemID loads the aggregate owning the given RFQ item.
	GetByRfqItemID(ctx context.Context, itemID uuid.UUID) (*domain.PurchaseRequest, error)
	// Save persists the aggregate header and upserts its items as one unit.
	Save(ctx context.Context, pr *domain.PurchaseRequest) error
	// List returns aggregate headers matching the filters.
	List(ctx context.Context, params ListParams) (ListResult, error)
}
