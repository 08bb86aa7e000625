// Package broadcast defines the port for fanning compile events out to
// listeners such as websocket clients and the message queue.
package broadcast

import (
	"context"

	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// Broadcaster delivers compile events. Implementations must not block the
// caller for long; slow consumers drop events.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, ev compile.Event)
}

// Multi fans an event out to several broadcasters.
type Multi []Broadcaster

// BroadcastEvent implements Broadcaster.
func (m Multi) BroadcastEvent(ctx context.Context, ev compile.Event) {
	for _, b := range m {
		if b != nil {
			b.BroadcastEvent(ctx, ev)
		}
	}
}
