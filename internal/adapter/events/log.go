package events

import (
	"context"
	"log/slog"

	"realestate-backend/internal/domain/event"
)

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	log *slog.Logger
}

func NewLogPublisher(log *slog.Logger) *LogPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &LogPublisher{log: log.With("component", "events")}
}

func (p *LogPublisher) Publish(ctx context.Context, e event.Event) error {
	p.log.InfoContext(ctx, "event", "type", e.Type, "payload", e.Payload)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
