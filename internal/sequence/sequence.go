// Package sequence hands out document numbers (PR-2025-0001, PO-2025-0001)
// backed by an atomic per-prefix counter table.
package sequence

import (
	"context"
	"fmt"
	"time"

	"procurement_backend/platform/db"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Allocator returns the next unused integer for a prefix. Implementations
// must guarantee that no two concurrent callers receive the same integer
// for the same prefix.
type Allocator interface {
	Next(ctx context.Context, prefix string) (int, error)
}

// Repository is the postgres-backed Allocator.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new sequence repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Next atomically increments and returns the counter for the prefix.
// The upsert serializes concurrent callers on the counter row.
func (r *Repository) Next(ctx context.Context, prefix string) (int, error) {
	var next int
	query := `
		INSERT INTO sequence_counters (prefix, last_number)
		VALUES ($1, 1)
		ON CONFLICT (prefix) DO UPDATE SET last_number = sequence_counters.last_number + 1
		RETURNING last_number`

	q := db.QuerierFrom(ctx, r.pool)
	if err := q.QueryRow(ctx, query, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to allocate sequence number: %w", err)
	}

	return next, nil
}

// RequestPrefix returns the purchase request number prefix for a year.
func RequestPrefix(t time.Time) string {
	return fmt.Sprintf("PR-%d-", t.Year())
}

// OrderPrefix returns the purchase order number prefix for a year.
func OrderPrefix(t time.Time) string {
	return fmt.Sprintf("PO-%d-", t.Year())
}

// Format renders a full document number from a prefix and counter value.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s%04d", prefix, n)
}

var _ Allocator = (*Repository)(nil)
