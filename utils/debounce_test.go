package utils

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesCalls(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int64
	var last atomic.Int64
	for i := 1; i <= 5; i++ {
		n := int64(i)
		d.Do(func() {
			fired.Add(1)
			last.Store(n)
		})
	}

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	// Give a cancelled earlier timer a chance to misfire.
	time.Sleep(50 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("expected exactly one firing, got %d", got)
	}
	if got := last.Load(); got != 5 {
		t.Errorf("only the last call should fire, got call %d", got)
	}
}

func TestDebouncerCancelDropsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired atomic.Int64
	d.Do(func() { fired.Add(1) })
	d.Cancel()

	time.Sleep(80 * time.Millisecond)
	if fired.Load() != 0 {
		t.Error("cancelled call must not fire")
	}
}

func TestDebouncerDefaultsDelay(t *testing.T) {
	d := NewDebouncer(0)
	if d.delay != DefaultSearchDelay {
		t.Errorf("non-positive delay should fall back to %v, got %v", DefaultSearchDelay, d.delay)
	}
}
