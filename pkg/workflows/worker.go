package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/worker"
)

// NewWorker returns a worker polling taskQueue on the client's namespace.
// Register workflows and activities on it before calling Run.
func (tc *TemporalClient) NewWorker(taskQueue string) worker.Worker {
	return worker.New(tc.Client, taskQueue, worker.Options{})
}

// Run starts w and blocks until ctx is cancelled, then stops it.
func Run(ctx context.Context, w worker.Worker) error {
	if w == nil {
		return errors.New("nil temporal worker")
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("start temporal worker: %w", err)
	}
	<-ctx.Done()
	w.Stop()
	return nil
}
