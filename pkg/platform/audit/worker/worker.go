// Package worker drains audit events from a channel into a store.
package worker

import (
	"context"
	"log/slog"

	"authgate/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them. Append
// failures are logged and skipped so a broken store never wedges the
// drain loop.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

// NewWorker constructs a worker draining inbox into store.
func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run processes events until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "failed to append audit event",
					"error", err,
					"action", event.Action,
				)
			}
		}
	}
}
