package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestMap_PreservesOrder(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2}
	got := Map(context.Background(), 3, items, func(_ context.Context, n int) int {
		return n * 10
	})

	if len(got) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(got))
	}
	for i, n := range items {
		if got[i] != n*10 {
			t.Errorf("result %d: expected %d, got %d", i, n*10, got[i])
		}
	}
}

func TestMap_BoundsConcurrency(t *testing.T) {
	var active, peak int64
	items := make([]int, 20)

	Map(context.Background(), 4, items, func(_ context.Context, _ int) struct{} {
		cur := atomic.AddInt64(&active, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return struct{}{}
	})

	if peak > 4 {
		t.Errorf("expected at most 4 concurrent workers, saw %d", peak)
	}
}

func TestMap_EmptyInput(t *testing.T) {
	got := Map(context.Background(), 4, nil, func(_ context.Context, n int) int { return n })
	if len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestMap_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := make([]int, 100)
	done := make(chan struct{})
	go func() {
		Map(ctx, 2, items, func(_ context.Context, _ int) int { return 1 })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Map should return promptly after cancellation")
	}
}
