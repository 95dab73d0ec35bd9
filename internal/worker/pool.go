// Package worker bounds how many frame transforms run at once.
package worker

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// Stats is a snapshot of pool counters
type Stats struct {
	Workers       int   `json:"workers"`
	QueueSize     int   `json:"queue_size"`
	TotalJobs     int64 `json:"total_jobs"`
	CompletedJobs int64 `json:"completed_jobs"`
	RejectedJobs  int64 `json:"rejected_jobs"`
	ActiveWorkers int64 `json:"active_workers"`
}

// Pool runs submitted jobs on a fixed set of goroutines
type Pool struct {
	workers  int
	jobQueue chan func()
	wg       sync.WaitGroup
	once     sync.Once

	mu     sync.RWMutex
	closed bool

	totalJobs     atomic.Int64
	completedJobs atomic.Int64
	rejectedJobs  atomic.Int64
	activeWorkers atomic.Int64
}

// NewPool creates a pool with the given number of workers. A non-positive
// count uses runtime.NumCPU; the queue holds twice as many pending jobs.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return &Pool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start launches the workers. Calling it more than once is a no-op.
func (p *Pool) Start() {
	p.once.Do(func() {
		for i := 0; i < p.workers; i++ {
			go p.worker()
		}
	})
}

func (p *Pool) worker() {
	for job := range p.jobQueue {
		p.activeWorkers.Add(1)
		job()
		p.activeWorkers.Add(-1)
		p.completedJobs.Add(1)
		p.wg.Done()
	}
}

// Submit enqueues job, blocking while the queue is full. It returns false
// once the pool is closed.
func (p *Pool) Submit(job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.rejectedJobs.Add(1)
		return false
	}
	p.wg.Add(1)
	p.totalJobs.Add(1)
	p.jobQueue <- job
	return true
}

// TrySubmit enqueues job only if there is room right now
func (p *Pool) TrySubmit(job func()) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.rejectedJobs.Add(1)
		return false
	}
	p.wg.Add(1)
	select {
	case p.jobQueue <- job:
		p.totalJobs.Add(1)
		return true
	default:
		p.wg.Done()
		p.rejectedJobs.Add(1)
		return false
	}
}

// Run executes job on the pool and waits for it. It gives up with ctx.Err()
// if the context ends before the job could be queued or finished; a job that
// already started still runs to completion on its worker.
func (p *Pool) Run(ctx context.Context, job func()) error {
	return p.run(ctx, job, true)
}

// TryRun is Run without waiting for queue space: it fails with ErrPoolFull
// when every worker is busy and the queue is full.
func (p *Pool) TryRun(ctx context.Context, job func()) error {
	return p.run(ctx, job, false)
}

func (p *Pool) run(ctx context.Context, job func(), block bool) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		job()
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		p.rejectedJobs.Add(1)
		return ErrPoolClosed
	}
	p.wg.Add(1)

	if !block {
		select {
		case p.jobQueue <- wrapped:
			p.totalJobs.Add(1)
			p.mu.RUnlock()
		default:
			p.wg.Done()
			p.mu.RUnlock()
			p.rejectedJobs.Add(1)
			return ErrPoolFull
		}
	} else {
		select {
		case p.jobQueue <- wrapped:
			p.totalJobs.Add(1)
			p.mu.RUnlock()
		case <-ctx.Done():
			p.wg.Done()
			p.mu.RUnlock()
			p.rejectedJobs.Add(1)
			return ctx.Err()
		}
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until every accepted job has finished
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Close stops accepting jobs and lets the workers exit once the queue drains
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.jobQueue)
}

// GetStats returns current counters
func (p *Pool) GetStats() Stats {
	return Stats{
		Workers:       p.workers,
		QueueSize:     cap(p.jobQueue),
		TotalJobs:     p.totalJobs.Load(),
		CompletedJobs: p.completedJobs.Load(),
		RejectedJobs:  p.rejectedJobs.Load(),
		ActiveWorkers: p.activeWorkers.Load(),
	}
}
