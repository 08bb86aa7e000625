package nats

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/port/messagequeue"
	"github.com/Strob0t/brainnode/internal/resilience"
)

// EventPublisher publishes compile events to the queue. It implements
// broadcast.Broadcaster. Publishing goes through a circuit breaker so a
// dead broker does not slow down every compile.
type EventPublisher struct {
	queue   messagequeue.Queue
	breaker *resilience.Breaker
}

// NewEventPublisher creates an EventPublisher on top of queue.
func NewEventPublisher(queue messagequeue.Queue, breaker *resilience.Breaker) *EventPublisher {
	return &EventPublisher{queue: queue, breaker: breaker}
}

// BroadcastEvent publishes ev on brain.<action>.<id>. Failures are logged.
func (p *EventPublisher) BroadcastEvent(ctx context.Context, ev compile.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.ErrorContext(ctx, "marshal compile event", "id", ev.ID, "error", err)
		return
	}
	subject := messagequeue.SubjectFor(ev.Action, ev.ID)
	err = p.breaker.Execute(func() error {
		return p.queue.Publish(ctx, subject, data)
	})
	if err != nil {
		slog.WarnContext(ctx, "publish compile event", "subject", subject, "error", err)
	}
}

// PublishReload announces that the bundle registry was reloaded.
func (p *EventPublisher) PublishReload(ctx context.Context, dir string, bundles int) {
	data, err := json.Marshal(messagequeue.ReloadedPayload{Dir: dir, Bundles: bundles})
	if err != nil {
		return
	}
	err = p.breaker.Execute(func() error {
		return p.queue.Publish(ctx, messagequeue.SubjectReloaded, data)
	})
	if err != nil {
		slog.WarnContext(ctx, "publish reload event", "error", err)
	}
}
