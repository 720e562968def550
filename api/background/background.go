// Package background supervises goroutines that outlive a single
// request, such as the catalog sync job.
package background

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type Background struct {
	log logrus.FieldLogger
	wg  sync.WaitGroup
}

func New(log logrus.FieldLogger) *Background {
	return &Background{log: log}
}

// Run starts task on its own goroutine. Panics and errors are logged,
// never propagated to the caller.
func (b *Background) Run(name string, task func(ctx context.Context) error) {
	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		defer func() {
			if rec := recover(); rec != nil {
				b.log.WithField("task", name).Errorf("PANIC: %v", rec)
			}
		}()

		if err := task(context.Background()); err != nil {
			b.log.WithField("task", name).Errorf("task failed: %v", err)
		}
	}()
}

// Shutdown waits for running tasks to finish or for the context to
// expire, whichever comes first.
func (b *Background) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("background tasks still running: %w", ctx.Err())
	}
}
