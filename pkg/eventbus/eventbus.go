// Package eventbus is the publish/subscribe seam between modules.
//
// Production runs on NATS JetStream through watermill-nats. Tests and single-process
// development use an in-memory watermill gochannel.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// EventBus satisfies both watermill.Publisher and watermill.Subscriber so a bus can
// be handed straight to a message.Router.
type EventBus interface {
	Publish(topic string, messages ...*message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}

// NewMessage JSON-encodes payload into a message carrying the correlation id on ctx.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("content_type", "application/json")

	correlationID := attr.CorrelationIDFrom(ctx)
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.SetContext(ctx)
	return msg, nil
}

// PublishJSON encodes payload and publishes it on topic.
func PublishJSON(ctx context.Context, bus EventBus, topic string, payload any) error {
	msg, err := NewMessage(ctx, payload)
	if err != nil {
		return err
	}
	if err := bus.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", topic, err)
	}
	return nil
}
