// Package dispatch runs fire-and-forget tasks on a bounded worker pool so
// webhook handlers never block their response on a slow external call.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Task is a unit of background work.
type Task func(ctx context.Context)

// Runner drains a bounded queue with a fixed set of workers.
type Runner struct {
	queue chan Task
	log   *slog.Logger
	wg    sync.WaitGroup

	stopOnce sync.Once
}

func NewRunner(queueSize int, log *slog.Logger) *Runner {
	return &Runner{
		queue: make(chan Task, queueSize),
		log:   log,
	}
}

// Start launches the worker goroutines. Workers exit when ctx is cancelled or
// the queue is closed by Stop.
func (r *Runner) Start(ctx context.Context, workers int) {
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task, ok := <-r.queue:
					if !ok {
						return
					}
					task(ctx)
				}
			}
		}()
	}
}

// Stop closes the queue and waits for queued and in-flight tasks to finish.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

// Submit enqueues a task without blocking. A full queue is an error; the task
// is dropped and the caller decides how loudly to complain.
func (r *Runner) Submit(task Task) error {
	select {
	case r.queue <- task:
		return nil
	default:
		r.log.Warn("task dropped", "capacity", cap(r.queue))
		return fmt.Errorf("dispatch queue is full (%d)", cap(r.queue))
	}
}
