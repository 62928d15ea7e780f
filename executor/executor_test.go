package executor

import (
	"sync/atomic"
	"testing"
)

// Every submitted task runs, and Close drains the queue before returning.
func TestPool_RunsAndDrains(t *testing.T) {
	t.Parallel()

	p := NewPool(2, 16)
	var ran atomic.Int64
	const n = 100
	for i := 0; i < n; i++ {
		p.Execute(func() { ran.Add(1) })
	}
	p.Close()
	if ran.Load() != n {
		t.Fatalf("ran %d of %d tasks", ran.Load(), n)
	}
}

// Close is idempotent.
func TestPool_DoubleClose(t *testing.T) {
	t.Parallel()

	p := NewPool(1, 1)
	p.Close()
	p.Close()
}

// Submitting to a closed pool is a lifecycle violation and raises hard
// instead of hanging or panicking on a raw channel send.
func TestPool_ExecuteAfterClosePanics(t *testing.T) {
	t.Parallel()

	p := NewPool(1, 4)
	p.Close()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	p.Execute(func() {})
}

// Non-positive arguments fall back to working defaults.
func TestPool_Defaults(t *testing.T) {
	t.Parallel()

	p := NewPool(0, 0)
	done := make(chan struct{})
	p.Execute(func() { close(done) })
	<-done
	p.Close()
}
