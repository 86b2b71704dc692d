package sequence

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestRequestPrefix(t *testing.T) {
	at := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	if got := RequestPrefix(at); got != "PR-2025-" {
		t.Fatalf("expected PR-2025-, got %s", got)
	}
}

func TestOrderPrefix(t *testing.T) {
	at := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	if got := OrderPrefix(at); got != "PO-2026-" {
		t.Fatalf("expected PO-2026-, got %s", got)
	}
}

func TestFormat(t *testing.T) {
	if got := Format("PR-2025-", 7); got != "PR-2025-0007" {
		t.Fatalf("expected PR-2025-0007, got %s", got)
	}
	if got := Format("PO-2025-", 12345); got != "PO-2025-12345" {
		t.Fatalf("expected PO-2025-12345, got %s", got)
	}
}

// memoryAllocator mirrors the counter-row upsert: one atomic
// increment-and-return per prefix, serialized on the counter.
type memoryAllocator struct {
	mu   sync.Mutex
	last map[string]int
}

func (m *memoryAllocator) Next(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		m.last = make(map[string]int)
	}
	m.last[prefix]++
	return m.last[prefix], nil
}

func TestConcurrentAllocationsAreDistinct(t *testing.T) {
	const callers = 64
	var alloc Allocator = &memoryAllocator{}

	results := make(chan int, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := alloc.Next(context.Background(), "PR-2025-")
			if err != nil {
				t.Errorf("Next: %v", err)
				return
			}
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool, callers)
	for n := range results {
		if seen[n] {
			t.Fatalf("number %d allocated twice", n)
		}
		if n < 1 || n > callers {
			t.Fatalf("number %d outside 1..%d", n, callers)
		}
		seen[n] = true
	}
	if len(seen) != callers {
		t.Fatalf("got %d distinct numbers, want %d", len(seen), callers)
	}
}

func TestAllocationsArePerPrefix(t *testing.T) {
	alloc := &memoryAllocator{}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if n, _ := alloc.Next(ctx, "PR-2025-"); n != i {
			t.Fatalf("PR counter = %d, want %d", n, i)
		}
	}
	if n, _ := alloc.Next(ctx, "PO-2025-"); n != 1 {
		t.Fatalf("PO counter = %d, want an independent 1", n)
	}
}
