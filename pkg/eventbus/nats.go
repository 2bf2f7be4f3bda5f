package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NatsConfig configures a JetStream-backed bus.
type NatsConfig struct {
	URL string
	// ConsumerGroup names the durable consumers. Processes sharing a group split
	// the work; different groups each see every message.
	ConsumerGroup string
	AckWait       time.Duration
}

// NatsBus publishes and subscribes through JetStream.
type NatsBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	conn       *nc.Conn
	js         jetstream.JetStream
	logger     *slog.Logger
}

// NewNatsBus connects to NATS, provisions the module streams and builds the
// watermill publisher and subscriber.
func NewNatsBus(ctx context.Context, cfg NatsConfig, logger *slog.Logger) (*NatsBus, error) {
	if cfg.ConsumerGroup == "" {
		cfg.ConsumerGroup = "pickem"
	}
	if cfg.AckWait == 0 {
		cfg.AckWait = 30 * time.Second
	}

	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Timeout(30 * time.Second),
		nc.ReconnectWait(time.Second),
		nc.Name(cfg.ConsumerGroup),
	}

	conn, err := nc.Connect(cfg.URL, natsOptions...)
	if err != nil {
		logger.Error("Failed to connect to NATS", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	if err := EnsureStreams(ctx, js, DefaultStreams(), logger); err != nil {
		conn.Close()
		return nil, err
	}

	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &wmnats.NATSMarshaler{}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOptions,
		Marshaler:   marshaler,
		JetStream: wmnats.JetStreamConfig{
			// streams are provisioned above with wildcard subjects
			AutoProvision: false,
			TrackMsgId:    true,
		},
		SubjectCalculator: wmnats.DefaultSubjectCalculator,
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.ConsumerGroup,
		CloseTimeout:     30 * time.Second,
		AckWaitTimeout:   cfg.AckWait,
		NatsOptions:      natsOptions,
		Unmarshaler:      marshaler,
		JetStream: wmnats.JetStreamConfig{
			AutoProvision: false,
			DurablePrefix: cfg.ConsumerGroup,
			SubscribeOptions: []nc.SubOpt{
				nc.DeliverNew(),
				nc.AckExplicit(),
			},
		},
		SubjectCalculator: wmnats.DefaultSubjectCalculator,
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create NATS subscriber: %w", err)
	}

	logger.InfoContext(ctx, "NATS event bus ready",
		slog.String("url", cfg.URL),
		slog.String("consumer_group", cfg.ConsumerGroup),
	)

	return &NatsBus{
		publisher:  publisher,
		subscriber: subscriber,
		conn:       conn,
		js:         js,
		logger:     logger,
	}, nil
}

func (b *NatsBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		b.logger.Debug("Publishing message",
			slog.String("topic", topic),
			slog.String("message_id", msg.UUID),
		)
	}
	return b.publisher.Publish(topic, messages...)
}

func (b *NatsBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.logger.InfoContext(ctx, "Subscribing to topic", slog.String("topic", topic))
	return b.subscriber.Subscribe(ctx, topic)
}

// JetStream exposes the stream API for health checks and tooling.
func (b *NatsBus) JetStream() jetstream.JetStream {
	return b.js
}

// Close closes the publisher, the subscriber and the connection.
func (b *NatsBus) Close() error {
	var errs []error
	if err := b.publisher.Close(); err != nil {
		b.logger.Error("Error closing NATS publisher", slog.Any("error", err))
		errs = append(errs, err)
	}
	if err := b.subscriber.Close(); err != nil {
		b.logger.Error("Error closing NATS subscriber", slog.Any("error", err))
		errs = append(errs, err)
	}
	b.conn.Close()
	return errors.Join(errs...)
}

var _ EventBus = (*NatsBus)(nil)
