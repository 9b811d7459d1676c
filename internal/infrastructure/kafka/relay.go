// Package kafka forwards domain events from the in-process bus to a Kafka
// topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domoutbox "github.com/felipeshurrab/Harmonia/internal/domain/outbox"
	"github.com/felipeshurrab/Harmonia/internal/observability"
	"github.com/felipeshurrab/Harmonia/internal/observability/logctx"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	HeaderEventType = "event_type"
	componentRelay  = "kafka_relay"
)

// MessageWriter is the subset of *kafka.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewWriter builds a writer that waits for all in-sync replicas.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

type Relay struct {
	w          MessageWriter
	propagator propagation.TextMapPropagator
	log        observability.Logger
}

type Option func(*Relay)

func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(r *Relay) { r.propagator = p }
}

func NewRelay(w MessageWriter, logger observability.Logger, opts ...Option) *Relay {
	if logger == nil {
		logger = observability.NopLogger()
	}
	r := &Relay{
		w:          w,
		propagator: otel.GetTextMapPropagator(),
		log:        logger.With(observability.F("component", componentRelay)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handle writes e as one message keyed by its aggregate id.
func (r *Relay) Handle(ctx context.Context, e domoutbox.Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s: %w", e.EventName(), err)
	}

	carrier := propagation.MapCarrier{}
	r.propagator.Inject(ctx, carrier)
	headers := []kafka.Header{{Key: HeaderEventType, Value: []byte(e.EventName())}}
	for k, v := range carrier {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(domoutbox.KeyOf(e)),
		Value:   value,
		Headers: headers,
		Time:    time.Now().UTC(),
	}
	if err := r.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s: %w", e.EventName(), err)
	}

	logctx.FromOr(ctx, r.log).Debug("event_relayed",
		observability.F("key", string(msg.Key)),
	)
	return nil
}
