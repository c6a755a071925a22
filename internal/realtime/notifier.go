package realtime

import (
	"context"

	"github.com/yungbote/ngooning-backend/internal/platform/logger"
)

// Publisher forwards messages to every instance (the redis bus).
type Publisher interface {
	Publish(ctx context.Context, msg SSEMessage) error
}

// Notifier is what services call to emit change events.
type Notifier interface {
	Notify(ctx context.Context, msg SSEMessage)
}

type notifier struct {
	log *logger.Logger
	hub *SSEHub
	bus Publisher
}

// NewNotifier publishes through bus when it is set; the bus forwarder then
// re-broadcasts on every instance, this one included. Without a bus messages
// go straight to the local hub.
func NewNotifier(log *logger.Logger, hub *SSEHub, bus Publisher) Notifier {
	return &notifier{log: log.With("service", "RealtimeNotifier"), hub: hub, bus: bus}
}

func (n *notifier) Notify(ctx context.Context, msg SSEMessage) {
	if msg.Channel == "" {
		return
	}
	if n.bus != nil {
		if err := n.bus.Publish(ctx, msg); err == nil {
			return
		} else {
			n.log.Warn("realtime bus publish failed; broadcasting locally", "channel", msg.Channel, "error", err)
		}
	}
	if n.hub != nil {
		n.hub.Broadcast(msg)
	}
}
