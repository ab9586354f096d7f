// Package kafka publishes domain events to Kafka topics.
package kafka

import (
	"context"
	"log/slog"
	"time"

	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Options struct {
	Brokers      []string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// Publisher writes messages synchronously with acks from all in-sync
// replicas. The topic comes from each message.
type Publisher struct {
	writer messageWriter
	logger *slog.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(opts Options, logger *slog.Logger) (*Publisher, error) {
	if len(opts.Brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 10 * time.Millisecond
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(opts.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           opts.BatchTimeout,
		BatchSize:              100,
		WriteTimeout:           opts.WriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newPublisher(writer, logger), nil
}

func newPublisher(w messageWriter, logger *slog.Logger) *Publisher {
	return &Publisher{writer: w, logger: logger.With("component", "KafkaPublisher")}
}

func (p *Publisher) Publish(ctx context.Context, msgs ...ports.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	propagator := otel.GetTextMapPropagator()
	out := make([]kafka.Message, len(msgs))
	for i, m := range msgs {
		km := kafka.Message{Topic: m.Topic, Key: []byte(m.Key), Value: m.Value}
		propagator.Inject(ctx, headerCarrier{msg: &km})
		out[i] = km
	}

	if err := p.writer.WriteMessages(ctx, out...); err != nil {
		return errs.Wrap(err, "write kafka messages")
	}
	p.logger.DebugContext(ctx, "messages written", "count", len(out))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// headerCarrier lets the otel propagator read and write Kafka headers.
type headerCarrier struct {
	msg *kafka.Message
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, len(c.msg.Headers))
	for i, h := range c.msg.Headers {
		keys[i] = h.Key
	}
	return keys
}
