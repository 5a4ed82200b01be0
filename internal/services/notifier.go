package services

import (
	"context"

	"github.com/aulahub/aulahub-backend/internal/platform/logger"
	"github.com/aulahub/aulahub-backend/internal/realtime"
	"github.com/aulahub/aulahub-backend/internal/realtime/bus"
)

// Notifier fans an event out to one identity's channel. Delivery is best
// effort: if nobody is subscribed the message is dropped, never queued,
// and a bus failure never fails the mutation that triggered it.
type Notifier interface {
	Notify(ctx context.Context, username string, event realtime.Event, data any)
}

type notifier struct {
	log *logger.Logger
	bus bus.Bus
}

func NewNotifier(log *logger.Logger, b bus.Bus) Notifier {
	return &notifier{log: log.With("service", "Notifier"), bus: b}
}

func (n *notifier) Notify(ctx context.Context, username string, event realtime.Event, data any) {
	if username == "" || n.bus == nil {
		return
	}
	msg := realtime.Message{
		Channel: realtime.UserChannel(username),
		Event:   event,
		Data:    data,
	}
	if err := n.bus.Publish(ctx, msg); err != nil {
		n.log.Warn("Realtime publish failed", "event", string(event), "error", err)
	}
}
