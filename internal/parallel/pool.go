package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Submit after Close has been called.
var ErrPoolClosed = errors.New("parallel: pool is closed")

// Pool is a fixed set of long-lived goroutines consuming jobs from a shared
// queue. It is created once and reused across many integrations.
type Pool struct {
	jobs    chan func()
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
	workers int
	panics  atomic.Int64
}

// NewPool starts workers goroutines. A non-positive count is treated as 1.
// The queue holds up to workers*4 pending jobs.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		jobs:    make(chan func(), workers*4),
		workers: workers,
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.panics.Add(1)
		}
	}()
	job()
}

// Submit queues job for execution. It blocks while the queue is full and
// gives up when ctx is done. Jobs must report their own results; a panic
// escaping a job is recovered and only counted.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Workers returns the number of goroutines in the pool.
func (p *Pool) Workers() int { return p.workers }

// Panics returns how many jobs panicked since the pool started.
func (p *Pool) Panics() int64 { return p.panics.Load() }

// Close stops accepting jobs, lets queued jobs finish and waits for the
// workers to exit. It is safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
		p.wg.Wait()
	})
}
