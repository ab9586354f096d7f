package kafka

import (
	"context"
	"log/slog"

	"mealorder/internal/core/ports"
)

// LogPublisher stands in for Kafka when no brokers are configured. Messages
// are logged and considered delivered.
type LogPublisher struct {
	logger *slog.Logger
}

var _ ports.EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "LogPublisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, msgs ...ports.Message) error {
	for _, m := range msgs {
		p.logger.InfoContext(ctx, "event", "topic", m.Topic, "key", m.Key, "payload", string(m.Value))
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
