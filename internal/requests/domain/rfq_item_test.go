package domain

import (
	"strings"
	"testing"
	"time"

	"procurement_backend/platform/apperr"

	"github.com/google/uuid"
)

func newTestItem(t *testing.T, status RfqItemStatus) *RfqItem {
	t.Helper()
	now := time.Now()
	item := NewRfqItem(uuid.New(), nil, now)

	switch status {
	case RfqItemStatusSent:
	case RfqItemStatusNoResponse:
		if err := item.MarkNoResponse(); err != nil {
			t.Fatalf("setup: %v", err)
		}
	default:
		if err := item.RecordReply(1000, nil, nil, now); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if status == RfqItemStatusSelected {
			if err := item.Select(); err != nil {
				t.Fatalf("setup: %v", err)
			}
		}
		if status == RfqItemStatusRejected {
			if err := item.Reject(); err != nil {
				t.Fatalf("setup: %v", err)
			}
		}
	}

	if item.Status != status {
		t.Fatalf("setup: expected %s, got %s", status, item.Status)
	}
	return &item
}

func TestRfqItem_RecordReply(t *testing.T) {
	now := time.Now()
	item := NewRfqItem(uuid.New(), nil, now)

	leadTime := 7
	notes := "ships from stock"
	if err := item.RecordReply(12500, &leadTime, &notes, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != RfqItemStatusReplied {
		t.Fatalf("expected REPLIED, got %s", item.Status)
	}
	if item.QuotedPriceCents == nil || *item.QuotedPriceCents != 12500 {
		t.Fatalf("quoted price not stored")
	}
	if item.RepliedAt == nil {
		t.Fatalf("replied-at not stored")
	}
}

func TestRfqItem_RecordReply_NegativePrice(t *testing.T) {
	item := newTestItem(t, RfqItemStatusSent)
	err := item.RecordReply(-1, nil, nil, time.Now())
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if item.Status != RfqItemStatusSent {
		t.Fatalf("status must not change on guard failure, got %s", item.Status)
	}
}

func TestRfqItem_SelectOnlyFromReplied(t *testing.T) {
	for _, status := range []RfqItemStatus{RfqItemStatusSent, RfqItemStatusSelected, RfqItemStatusRejected, RfqItemStatusNoResponse} {
		item := newTestItem(t, status)
		if err := item.Select(); err == nil {
			t.Fatalf("select from %s must fail", status)
		}
	}

	item := newTestItem(t, RfqItemStatusReplied)
	if err := item.Select(); err != nil {
		t.Fatalf("select from REPLIED failed: %v", err)
	}
}

func TestRfqItem_RejectOnlyFromReplied(t *testing.T) {
	for _, status := range []RfqItemStatus{RfqItemStatusSent, RfqItemStatusSelected, RfqItemStatusRejected, RfqItemStatusNoResponse} {
		item := newTestItem(t, status)
		if err := item.Reject(); err == nil {
			t.Fatalf("reject from %s must fail", status)
		}
	}

	item := newTestItem(t, RfqItemStatusReplied)
	if err := item.Reject(); err != nil {
		t.Fatalf("reject from REPLIED failed: %v", err)
	}
}

func TestRfqItem_DeselectPreservesQuote(t *testing.T) {
	item := newTestItem(t, RfqItemStatusSelected)
	if err := item.Deselect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != RfqItemStatusReplied {
		t.Fatalf("expected REPLIED, got %s", item.Status)
	}
	if item.QuotedPriceCents == nil {
		t.Fatalf("quote data lost on deselect")
	}
}

func TestRfqItem_UnrejectPreservesQuote(t *testing.T) {
	item := newTestItem(t, RfqItemStatusRejected)
	if err := item.Unreject(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != RfqItemStatusReplied {
		t.Fatalf("expected REPLIED, got %s", item.Status)
	}
	if item.QuotedPriceCents == nil {
		t.Fatalf("quote data lost on unreject")
	}
}

func TestRfqItem_NoResponseIsTerminal(t *testing.T) {
	item := newTestItem(t, RfqItemStatusNoResponse)
	if err := item.RecordReply(100, nil, nil, time.Now()); err == nil {
		t.Fatalf("record reply from NO_RESPONSE must fail")
	}
	if err := item.MarkNoResponse(); err == nil {
		t.Fatalf("repeated mark no response must fail")
	}
	if err := item.Select(); err == nil {
		t.Fatalf("select from NO_RESPONSE must fail")
	}
}

func TestRfqItem_IllegalTransitionNamesOperationAndStatus(t *testing.T) {
	item := newTestItem(t, RfqItemStatusSent)
	err := item.Select()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict kind, got %v", apperr.GetKind(err))
	}
	msg := err.Error()
	if !strings.Contains(msg, "select") || !strings.Contains(msg, "SENT") {
		t.Fatalf("error must name operation and status, got %q", msg)
	}
}
