// Package handlerwrapper adapts typed event handlers to watermill.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Result is an outgoing event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// Publisher is the subset of the bus a handler needs to emit results.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
}

// WrapTransformingTyped decodes the JSON payload into T, runs handler and publishes
// whatever it returns.
//
// Undecodable messages are logged and acked. A handler error nacks the message so
// the router retries it.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher Publisher,
	m metrics.OperationMetrics,
	handler func(context.Context, *T) ([]Result, error),
) message.NoPublishHandlerFunc {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(handlerName)
	}
	if m == nil {
		m = metrics.NewNoop()
	}

	return func(msg *message.Message) error {
		ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))
		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message_id", msg.UUID),
		))
		defer span.End()

		m.RecordOperationAttempt(ctx, handlerName, "handler")
		start := time.Now()
		defer func() {
			m.RecordOperationDuration(ctx, handlerName, "handler", time.Since(start))
		}()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.WarnContext(ctx, "Dropping undecodable message",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.RecordError(err)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return nil
		}

		out, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.Error(err),
			)
			span.RecordError(err)
			m.RecordOperationFailure(ctx, handlerName, "handler")
			return fmt.Errorf("%s: %w", handlerName, err)
		}

		for _, r := range out {
			outMsg, err := eventbus.NewMessage(ctx, r.Payload)
			if err != nil {
				return fmt.Errorf("%s: %w", handlerName, err)
			}
			for k, v := range r.Metadata {
				outMsg.Metadata.Set(k, v)
			}
			if err := publisher.Publish(r.Topic, outMsg); err != nil {
				span.RecordError(err)
				m.RecordOperationFailure(ctx, handlerName, "handler")
				return fmt.Errorf("%s: failed to publish %s: %w", handlerName, r.Topic, err)
			}
		}

		m.RecordOperationSuccess(ctx, handlerName, "handler")
		return nil
	}
}
