package util

import (
	"context"
	"sync"
	"sync/atomic"
)

// WorkerPool runs submitted closures on a fixed set of goroutines.
// A pool of size zero accepts nothing, callers are expected to run work inline.
type WorkerPool struct {
	tasks   chan func()
	workers int
	busy    atomic.Int32
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped atomic.Bool
}

func NewWorkerPool(workers int) *WorkerPool {
	if workers < 0 {
		workers = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		tasks:   make(chan func(), workers),
		workers: workers,
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// Submit queues a task. It returns false if the pool has no workers or was stopped.
func (p *WorkerPool) Submit(task func()) bool {
	if p == nil || p.workers == 0 || p.stopped.Load() {
		return false
	}
	p.busy.Add(1)
	select {
	case p.tasks <- task:
		return true
	case <-p.ctx.Done():
		p.busy.Add(-1)
		return false
	}
}

// Size is the number of worker goroutines.
func (p *WorkerPool) Size() int {
	if p == nil {
		return 0
	}
	return p.workers
}

// Idle is the number of workers that are neither running nor have a task queued for them.
func (p *WorkerPool) Idle() int {
	if p == nil {
		return 0
	}
	idle := p.workers - int(p.busy.Load())
	if idle < 0 {
		return 0
	}
	return idle
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			task()
			p.busy.Add(-1)
		case <-p.ctx.Done():
			return
		}
	}
}

// Stop shuts the pool down. With wait set, every queued task runs before Stop returns,
// otherwise only tasks already running are waited for.
func (p *WorkerPool) Stop(wait bool) {
	if p == nil || !p.stopped.CompareAndSwap(false, true) {
		return
	}
	if wait {
		close(p.tasks)
	} else {
		p.cancel()
	}
	p.wg.Wait()
	p.cancel()
}
