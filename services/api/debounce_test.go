package api

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	var calls int32
	d := NewDebouncer(30 * time.Millisecond)

	// rapid retriggers: only the last call should fire
	for i := 0; i < 5; i++ {
		d.Do(func() { atomic.AddInt32(&calls, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d; want 1", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var calls int32
	d := NewDebouncer(30 * time.Millisecond)

	d.Do(func() { atomic.AddInt32(&calls, 1) })
	d.Stop() // the owning view is gone

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("calls = %d; want 0 after Stop", got)
	}
}

func TestDebouncerIndependentInstances(t *testing.T) {
	var a, b int32
	da := NewDebouncer(20 * time.Millisecond)
	db := NewDebouncer(20 * time.Millisecond)

	da.Do(func() { atomic.AddInt32(&a, 1) })
	db.Do(func() { atomic.AddInt32(&b, 1) })

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&a) != 1 || atomic.LoadInt32(&b) != 1 {
		t.Errorf("a = %d, b = %d; instances must not share a timer", a, b)
	}
}
