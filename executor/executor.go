// Package executor provides a bounded worker pool usable as the cache's
// notification Executor, keeping listener fan-out off mutator goroutines
// while capping the number of goroutines it can consume.
//
// usage:
//
//	pool := executor.NewPool(2, 1024) // 2 workers; queue 1024 tasks
//	defer pool.Close()
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    OnRemoval: onRemoval,
//	    Executor:  pool.Execute,
//	})
package executor

import (
	"sync"
	"sync/atomic"
)

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	q      chan func()
	wg     sync.WaitGroup
	once   sync.Once
	closed atomic.Bool
}

// NewPool starts workers goroutines consuming a queue of qlen tasks.
// Non-positive arguments fall back to 1 worker and a queue of 1024.
func NewPool(workers, qlen int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}
	p := &Pool{q: make(chan func(), qlen)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for f := range p.q {
				f()
			}
		}()
	}
	return p
}

// Execute submits a task, blocking when the queue is full. Notifications
// must not be dropped, so backpressure is applied to the submitter
// instead; submission happens after the mutation committed and outside
// any store lock, so a full queue slows callers without blocking the map.
//
// Execute must not be called after Close; doing so panics. Stop every
// submitter (e.g. the cache using this pool as its Executor) first.
func (p *Pool) Execute(task func()) {
	if p.closed.Load() {
		panic("executor: Execute called after Close")
	}
	p.q <- task
}

// Close stops accepting tasks and waits for the queue to drain.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.q)
		p.wg.Wait()
	})
}
