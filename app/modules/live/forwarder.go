package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	leaderboardevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/leaderboard"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
)

// PublicTopics are the only topics forwarded to browsers.
var PublicTopics = []string{
	gameevents.GameUpdatedV1,
	gameevents.GameLockedV1,
	leaderboardevents.StandingsUpdatedV1,
}

// Forwarder copies bus messages onto the hub.
type Forwarder struct {
	bus    eventbus.EventBus
	hub    *Hub
	topics []string
	now    func() time.Time
	logger *slog.Logger
}

// NewForwarder forwards PublicTopics from bus to hub.
func NewForwarder(bus eventbus.EventBus, hub *Hub, logger *slog.Logger) *Forwarder {
	return &Forwarder{bus: bus, hub: hub, topics: PublicTopics, now: time.Now, logger: logger}
}

// Start subscribes to every topic. Forwarding stops when ctx is cancelled.
func (f *Forwarder) Start(ctx context.Context) error {
	for _, topic := range f.topics {
		messages, err := f.bus.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", topic, err)
		}
		go f.forward(ctx, topic, messages)
	}
	return nil
}

func (f *Forwarder) forward(ctx context.Context, topic string, messages <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			// Delivery to browsers is best effort; the bus message is always acked.
			f.hub.Broadcast(Envelope{Type: topic, Payload: msg.Payload, Timestamp: f.now().UTC()})
			msg.Ack()
			f.logger.DebugContext(ctx, "Forwarded live update",
				attr.String("topic", topic),
				attr.String("message_id", msg.UUID),
			)
		}
	}
}
