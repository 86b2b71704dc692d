// Package repository persists accounts-payable records. Payables are
// created once per confirmed purchase order and never mutated by this
// service, so the repository surface is deliberately small.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"procurement_backend/platform/apperr"
	"procurement_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountsPayable is the payment obligation created when a purchase order
// is confirmed. OrderNumber is denormalized for display.
type AccountsPayable struct {
	ID               uuid.UUID `db:"id"`
	PurchaseOrderID  uuid.UUID `db:"purchase_order_id"`
	VendorID         uuid.UUID `db:"vendor_id"`
	TotalAmountCents int64     `db:"total_amount_cents"`
	Currency         string    `db:"currency"`
	OrderNumber      string    `db:"order_number"`
	CreatedAt        time.Time `db:"created_at"`
}

// ListParams contains parameters for listing payables.
type ListParams struct {
	VendorID *uuid.UUID
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing payables.
type ListResult struct {
	Items      []AccountsPayable
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides persistence for accounts payable. Methods join a
// transaction carried in the context.
type Repository interface {
	Create(ctx context.Context, ap *AccountsPayable) error
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*AccountsPayable, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
}

// Repo is the postgres implementation of Repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new payables repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a payable. The unique index on purchase_order_id makes
// the create-once invariant hold even if two confirmation handlers race.
func (r *Repo) Create(ctx context.Context, ap *AccountsPayable) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO accounts_payable (id, purchase_order_id, vendor_id, total_amount_cents, currency, order_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := q.Exec(ctx, query,
		ap.ID, ap.PurchaseOrderID, ap.VendorID, ap.TotalAmountCents, ap.Currency, ap.OrderNumber, ap.CreatedAt,
	); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("accounts payable already exists for this purchase order")
		}
		return fmt.Errorf("create accounts payable: %w", err)
	}
	return nil
}

// ExistsForOrder reports whether a payable already references the order.
func (r *Repo) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	q := db.QuerierFrom(ctx, r.pool)

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts_payable WHERE purchase_order_id = $1)`
	if err := q.QueryRow(ctx, query, orderID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check accounts payable: %w", err)
	}
	return exists, nil
}

// GetByOrderID loads the payable referencing the order.
func (r *Repo) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*AccountsPayable, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		SELECT id, purchase_order_id, vendor_id, total_amount_cents, currency, order_number, created_at
		FROM accounts_payable WHERE purchase_order_id = $1`

	var ap AccountsPayable
	err := q.QueryRow(ctx, query, orderID).Scan(
		&ap.ID, &ap.PurchaseOrderID, &ap.VendorID, &ap.TotalAmountCents, &ap.Currency, &ap.OrderNumber, &ap.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("accounts payable not found")
		}
		return nil, fmt.Errorf("get accounts payable: %w", err)
	}
	return &ap, nil
}

// List returns payables, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) (ListResult, error) {
	q := db.QuerierFrom(ctx, r.pool)

	where := "TRUE"
	args := []any{}
	idx := 1
	if params.VendorID != nil {
		where = fmt.Sprintf("vendor_id = $%d", idx)
		args = append(args, *params.VendorID)
		idx++
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM accounts_payable WHERE "+where, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count accounts payable: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`
		SELECT id, purchase_order_id, vendor_id, total_amount_cents, currency, order_number, created_at
		FROM accounts_payable
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list accounts payable: %w", err)
	}
	defer rows.Close()

	items := make([]AccountsPayable, 0, pageSize)
	for rows.Next() {
		var ap AccountsPayable
		if err := rows.Scan(&ap.ID, &ap.PurchaseOrderID, &ap.VendorID, &ap.TotalAmountCents, &ap.Currency, &ap.OrderNumber, &ap.CreatedAt); err != nil {
			return ListResult{}, fmt.Errorf("scan accounts payable: %w", err)
		}
		items = append(items, ap)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list accounts payable: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}
