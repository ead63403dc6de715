package cache

import (
	"context"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-visualizer/pkg/datetime"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
)

func testSchedule(remaining float64) mortgage.Schedule {
	return mortgage.Schedule{
		mortgage.NewPaymentRecord(datetime.MustParseDate("2024-01-01"), remaining, remaining, 1, remaining+1),
		mortgage.NewPaymentRecord(datetime.MustParseDate("2024-01-31"), 0, 0, 0, 0),
	}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, time.Minute)

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Error("Get() on empty cache should miss")
	}

	if err := c.Set(ctx, "a", testSchedule(100)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok := c.Get(ctx, "a")
	if !ok {
		t.Fatal("Get() should hit after Set()")
	}
	if len(got) != 2 || mortgage.Value(got[0].RemainingPrincipal) != 100 {
		t.Errorf("Get() = %+v, expected the stored schedule", got)
	}
}

func TestMemoryCopiesSchedules(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, time.Minute)

	stored := testSchedule(100)
	_ = c.Set(ctx, "a", stored)
	*stored[0].RemainingPrincipal = 1

	got, _ := c.Get(ctx, "a")
	*got[0].PrincipalPaid = 2

	again, _ := c.Get(ctx, "a")
	if mortgage.Value(again[0].RemainingPrincipal) != 100 || mortgage.Value(again[0].PrincipalPaid) != 100 {
		t.Errorf("cached schedule was modified through a caller's copy: %+v", again[0])
	}
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2, time.Minute)

	_ = c.Set(ctx, "a", testSchedule(1))
	_ = c.Set(ctx, "b", testSchedule(2))
	c.Get(ctx, "a") // a is now most recently used
	_ = c.Set(ctx, "c", testSchedule(3))

	if _, ok := c.Get(ctx, "b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Error("expected a to survive eviction")
	}
	if _, ok := c.Get(ctx, "c"); !ok {
		t.Error("expected c to be cached")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", c.Len())
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory(10, time.Minute)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "a", testSchedule(1))
	_ = c.Set(ctx, "b", testSchedule(2))

	now = now.Add(30 * time.Second)
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Error("entry should still be fresh")
	}
	_ = c.Set(ctx, "b", testSchedule(3)) // refreshes b's expiry

	now = now.Add(45 * time.Second)
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("CleanExpired() = %d, expected 1", removed)
	}
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("entry a should have expired")
	}
	if _, ok := c.Get(ctx, "b"); !ok {
		t.Error("entry b should still be fresh")
	}
}
