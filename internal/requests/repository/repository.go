package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"procurement_backend/internal/requests/domain"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestNotFoundMessage = "purchase request not found"

// Repo is the postgres implementation of Repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new purchase request repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const requestColumns = `id, request_number, kind, material_id, service_category_id, description,
		quantity, unit, required_date, status, requested_by, created_at, updated_at`

const itemColumns = `id, purchase_request_id, vendor_id, vendor_offering_id, status,
		quoted_price_cents, quoted_lead_time_days, notes, sent_at, replied_at`

// Create inserts the aggregate header and its items.
func (r *Repo) Create(ctx context.Context, pr *domain.PurchaseRequest) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO purchase_requests (` + requestColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	if _, err := q.Exec(ctx, query,
		pr.ID, pr.RequestNumber, pr.Kind, pr.MaterialID, pr.ServiceCategoryID, pr.Description,
		pr.Quantity, pr.Unit, pr.RequiredDate, pr.Status, pr.RequestedBy, pr.CreatedAt, pr.UpdatedAt,
	); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("purchase request number already exists")
		}
		return fmt.Errorf("create purchase request: %w", err)
	}

	return r.upsertItems(ctx, pr)
}

// GetByID loads the aggregate with all its RFQ items.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PurchaseRequest, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `SELECT ` + requestColumns + ` FROM purchase_requests WHERE id = $1`
	pr, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// GetByRfqItemID loads the aggregate owning the given RFQ item.
func (r *Repo) GetByRfqItemID(ctx context.Context, itemID uuid.UUID) (*domain.PurchaseRequest, error) {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		SELECT ` + qualify(requestColumns, "pr") + `
		FROM purchase_requests pr
		JOIN rfq_items i ON i.purchase_request_id = pr.id
		WHERE i.id = $1`
	pr, err := scanRequest(q.QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// Save persists the header and upserts the items.
func (r *Repo) Save(ctx context.Context, pr *domain.PurchaseRequest) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		UPDATE purchase_requests
		SET description = $2, quantity = $3, unit = $4, required_date = $5,
			status = $6, material_id = $7, service_category_id = $8, updated_at = $9
		WHERE id = $1`

	tag, err := q.Exec(ctx, query,
		pr.ID, pr.Description, pr.Quantity, pr.Unit, pr.RequiredDate,
		pr.Status, pr.MaterialID, pr.ServiceCategoryID, pr.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save purchase request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(requestNotFoundMessage)
	}

	return r.upsertItems(ctx, pr)
}

// List returns aggregate headers matching the filters.
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
	if params.Kind != nil {
		where = append(where, fmt.Sprintf("kind = $%d", idx))
		args = append(args, *params.Kind)
		idx++
	}
	if params.Search != "" {
		where = append(where, fmt.Sprintf("(request_number ILIKE $%d OR description ILIKE $%d)", idx, idx))
		args = append(args, "%"+params.Search+"%")
		idx++
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM purchase_requests WHERE " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("count purchase requests: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := fmt.Sprintf(`SELECT `+requestColumns+`
		FROM purchase_requests
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		whereClause, sortColumn(params.SortBy), sortDirection(params.SortOrder), idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return ListResult{}, fmt.Errorf("list purchase requests: %w", err)
	}
	defer rows.Close()

	items := make([]domain.PurchaseRequest, 0, pageSize)
	for rows.Next() {
		pr, err := scanRequest(rows)
		if err != nil {
			return ListResult{}, err
		}
		items = append(items, *pr)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("list purchase requests: %w", err)
	}

	totalPages := (total + pageSize - 1) / pageSize
	return ListResult{Items: items, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}, nil
}

func (r *Repo) loadItems(ctx context.Context, pr *domain.PurchaseRequest) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `SELECT ` + itemColumns + ` FROM rfq_items WHERE purchase_request_id = $1 ORDER BY position`
	rows, err := q.Query(ctx, query, pr.ID)
	if err != nil {
		return fmt.Errorf("load rfq items: %w", err)
	}
	defer rows.Close()

	pr.Items = pr.Items[:0]
	for rows.Next() {
		var item domain.RfqItem
		var ownerID uuid.UUID
		if err := rows.Scan(
			&item.ID, &ownerID, &item.VendorID, &item.VendorOfferingID, &item.Status,
			&item.QuotedPriceCents, &item.QuotedLeadTimeDays, &item.Notes, &item.SentAt, &item.RepliedAt,
		); err != nil {
			return fmt.Errorf("scan rfq item: %w", err)
		}
		pr.Items = append(pr.Items, item)
	}
	return rows.Err()
}

func (r *Repo) upsertItems(ctx context.Context, pr *domain.PurchaseRequest) error {
	q := db.QuerierFrom(ctx, r.pool)

	query := `
		INSERT INTO rfq_items (` + itemColumns + `, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			quoted_price_cents = EXCLUDED.quoted_price_cents,
			quoted_lead_time_days = EXCLUDED.quoted_lead_time_days,
			notes = EXCLUDED.notes,
			replied_at = EXCLUDED.replied_at`

	for pos := range pr.Items {
		item := &pr.Items[pos]
		if _, err := q.Exec(ctx, query,
			item.ID, pr.ID, item.VendorID, item.VendorOfferingID, item.Status,
			item.QuotedPriceCents, item.QuotedLeadTimeDays, item.Notes, item.SentAt, item.RepliedAt, pos,
		); err != nil {
			return fmt.Errorf("upsert rfq item: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*domain.PurchaseRequest, error) {
	var pr domain.PurchaseRequest
	err := row.Scan(
		&pr.ID, &pr.RequestNumber, &pr.Kind, &pr.MaterialID, &pr.ServiceCategoryID, &pr.Description,
		&pr.Quantity, &pr.Unit, &pr.RequiredDate, &pr.Status, &pr.RequestedBy, &pr.CreatedAt, &pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(requestNotFoundMessage)
		}
		return nil, fmt.Errorf("scan purchase request: %w", err)
	}
	return &pr, nil
}

func sortColumn(sortBy string) string {
	switch sortBy {
	case "requestNumber":
		return "request_number"
	case "requiredDate":
		return "required_date"
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

func qualify(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
