package util

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	pool := NewWorkerPool(3)
	var done atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		if !pool.Submit(func() {
			defer wg.Done()
			done.Add(1)
		}) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	wg.Wait()
	pool.Stop(true)
	if done.Load() != 3 {
		t.Fatalf("ran %d tasks, want 3", done.Load())
	}
	if pool.Submit(func() {}) {
		t.Fatalf("stopped pool accepted a task")
	}
}

func TestWorkerPoolIdle(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Stop(true)
	if pool.Size() != 2 || pool.Idle() != 2 {
		t.Fatalf("new pool size %d idle %d", pool.Size(), pool.Idle())
	}

	release := make(chan struct{})
	started := make(chan struct{})
	pool.Submit(func() {
		close(started)
		<-release
	})
	<-started
	if pool.Idle() != 1 {
		t.Fatalf("idle = %d with one running task", pool.Idle())
	}
	close(release)

	deadline := time.Now().Add(5 * time.Second)
	for pool.Idle() != 2 {
		if time.Now().After(deadline) {
			t.Fatalf("worker never returned to idle")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEmptyWorkerPool(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.Submit(func() { t.Errorf("task ran on an empty pool") }) {
		t.Fatalf("empty pool accepted a task")
	}
	if pool.Size() != 0 || pool.Idle() != 0 {
		t.Fatalf("empty pool size %d idle %d", pool.Size(), pool.Idle())
	}
	pool.Stop(true)
	pool.Stop(true)
}
