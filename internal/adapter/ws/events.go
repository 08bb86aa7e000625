package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Strob0t/brainnode/internal/domain/compile"
)

// Event type prefix for compile events, e.g. "compile.written".
const eventPrefix = "compile."

// EventType returns the message type for a compile event action.
func EventType(action string) string { return eventPrefix + action }

// BroadcastEvent implements broadcast.Broadcaster.
func (h *Hub) BroadcastEvent(ctx context.Context, ev compile.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		slog.Error("websocket event marshal failed", "action", ev.Action, "error", err)
		return
	}
	h.Broadcast(ctx, Message{Type: EventType(ev.Action), Payload: data})
}
