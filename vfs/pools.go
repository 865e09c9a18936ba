package vfs

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultIOPoolSize is the fixed I/O pool worker count ("I/O pool: fixed
// size, roughly 4").
const DefaultIOPoolSize = 4

// Pools is the shared (I/O pool, processing pool) pair every mount
// dispatches render work through. The I/O pool is bounded by a
// semaphore to the worker count given to NewPools (DefaultIOPoolSize when
// that is not positive) concurrent decodes; the processing pool
// is unbounded — CPU-bound DNG encoding never blocks on I/O, so letting
// the Go scheduler fan it out across goroutines needs no additional cap.
type Pools struct {
	ioSem *semaphore.Weighted

	ioTasks   sync.WaitGroup
	procTasks sync.WaitGroup
}

// NewPools constructs a shared pool pair with the given I/O concurrency.
func NewPools(ioPoolSize int64) *Pools {
	if ioPoolSize <= 0 {
		ioPoolSize = DefaultIOPoolSize
	}
	return &Pools{ioSem: semaphore.NewWeighted(ioPoolSize)}
}

// SubmitIO runs fn on the calling goroutine once an I/O slot is free,
// holding the slot until fn returns; if ctx ends before a slot is free, fn
// is not run. The caller is expected to have already dispatched this onto
// its own goroutine, since SubmitIO itself does not spawn one (see
// Core.readDNG).
func (p *Pools) SubmitIO(ctx context.Context, fn func()) {
	p.ioTasks.Add(1)
	defer p.ioTasks.Done()

	if err := p.ioSem.Acquire(ctx, 1); err != nil {
		return
	}
	defer p.ioSem.Release(1)

	fn()
}

// SubmitProcessing runs fn on the unbounded processing pool.
func (p *Pools) SubmitProcessing(fn func()) {
	p.procTasks.Add(1)
	defer p.procTasks.Done()
	fn()
}

// Quiesce waits for both pools to drain outstanding work. The two waits
// run concurrently via errgroup since they are independent.
func (p *Pools) Quiesce(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		p.ioTasks.Wait()
		return nil
	})
	g.Go(func() error {
		p.procTasks.Wait()
		return nil
	})
	return g.Wait()
}
