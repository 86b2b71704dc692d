package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"procurement_backend/internal/orders/domain"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderNotFoundMessage = "purchase order not found"

// Repo is the postgres implementation of Repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new purchase order repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const orderColumns = `id, order_number, purchase_request_id, rfq_item_id, vendor_id, order_date,
		expected_delivery_date, total_amount_cents, currency, status, notes, created_by, created_at, updated_at`

// Create inserts a purchase order. A partial unique index on rfq_item_id
// (excluding CANCELED rows) backs the one-active-order-per-item invariant
// under concurrent creates.
func (r *Repo) Create(ctx context.Context, order *domain.PurchaseOrder) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO purchase_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	if _, err := q.Exec(ctx, query,
		order.ID, order.OrderNumber, order.PurchaseRequestID, order.RfqItemID, order.VendorID, order.OrderDate,
		order.ExpectedDeliveryDate, order.TotalAmountCents, order.Currency, order.Status, order.Notes,
		order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("an active purchase order already exists for this rfq item")
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

// GetByID loads a purchase order.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `SELECT ` + orderColumns + ` FROM purchase_orders WHERE id = $1`
	return scanOrder(q.QueryRow(ctx, query, id))
}

// Save persists mutable purchase order fields.
func (r *Repo) Save(ctx context.Context, order *domain.PurchaseOrder) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE purchase_orders
		SET status = $2, expected_delivery_date = $3, notes = $4, updated_at = $5
		WHERE id = $1`

	tag, err := q.Exec(ctx, query, order.ID, order.Status, order.ExpectedDeliveryDate, order.Notes, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(orderNotFoundMessage)
	}
	return nil
}

// HasActiveOrderForRfqItem reports whether a non-canceled order already
// references the RFQ item.
func (r *Repo) HasActiveOrderForRfqItem(ctx context.Context, rfqItemID uuid.UUID) (bool, error) {
	q := db.QuerierFrom(ctx, r.pool)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM purchase_orders WHERE rfq_item_id = $1 AND status <> $2)`
	if err := q.QueryRow(ctx, query, rfqItemID, domain.OrderStatusCanceled).Scan(&exists); err != nil {
		return false, fmt.Errorf("check active order for rfq item: %w", err)
	}
	return exists, nil
}

// List returns purchase orders matching the filters.
func (r *Repo) List(ctx context.Context, params ListParams) (ListResult, error) {
	q := db.QuerierFrom(ctx, r.pool)

	where := []string{"TRUE"}
	args := []any{}
	idx := 1

	if params.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, *params.Status)
		idx++
	}
	if params.PurchaseRequestID != nil {
		where = append(where, fmt.Sprintf("purchase_request_id = $%d", idx))
		args = append(args, *params.PurchaseRequestID)
		idx++
	}
	if params.VendorID != nil {
		where = append(where, fmt.Sprintf("vendor_id = $%d", idx))
		args = append(args, *params.VendorID)
		idx++
	}
	if params.Search != "" {
		where = append(where, fmt.Sprintf("order_number ILIKE $%d", idx))
		args = append(args, "%"+params.Search+"%")
		idx++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM purchase_orders WHERE "+whereClause, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count purchase orders: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`SELECT `+orderColumns+`
		FROM purchase_orders
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		whereClause, sortColumn(params.SortBy), sortDirection(params.SortOrder), idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	items := make([]domain.PurchaseOrder, 0, pageSize)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, *order)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list purchase orders: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.PurchaseOrder, error) {
	var order domain.PurchaseOrder
	err := row.Scan(
		&order.ID, &order.OrderNumber, &order.PurchaseRequestID, &order.RfqItemID, &order.VendorID, &order.OrderDate,
		&order.ExpectedDeliveryDate, &order.TotalAmountCents, &order.Currency, &order.Status, &order.Notes,
		&order.CreatedBy, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(orderNotFoundMessage)
		}
		return nil, fmt.Errorf("scan purchase order: %w", err)
	}
	return &order, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "orderNumber":
		return "order_number"
	case "orderDate":
		return "order_date"
	case "status":
		return "status"
	case "updatedAt":
		return "updated_at"
	default:
		return "created_at"
	}
}

func sortDirection(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}
