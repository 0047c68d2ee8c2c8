package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Publisher hands events to the worker's inbox without blocking the
// request path. If the inbox is full the event is dropped and logged;
// auth availability is never traded for audit completeness.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
	clock  func() time.Time
}

// NewPublisher constructs a Publisher feeding the given inbox.
func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  inbox,
		logger: logger,
		clock:  time.Now,
	}
}

// Emit stamps the event with an ID and timestamp and enqueues it.
func (p *Publisher) Emit(ctx context.Context, event Event) {
	event.ID = uuid.NewString()
	event.Timestamp = p.clock().UTC()

	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, event dropped",
			"action", event.Action,
			"subject", event.Subject,
		)
	}
}
