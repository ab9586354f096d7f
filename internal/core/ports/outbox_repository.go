package ports

import (
	"context"
	"time"

	"mealorder/internal/core/domain/model/kernel"
)

// OutboxMessage is an event recorded in the same transaction as the state
// change it describes. A relay publishes it later.
type OutboxMessage struct {
	ID          kernel.UUID
	Topic       string
	Key         string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

func NewOutboxMessage(topic, key string, payload []byte, createdAt time.Time) OutboxMessage {
	return OutboxMessage{
		ID:        kernel.NewUUID(),
		Topic:     topic,
		Key:       key,
		Payload:   payload,
		CreatedAt: createdAt,
	}
}

type OutboxRepository interface {
	Add(ctx context.Context, msg OutboxMessage) error

	// ListUnpublished returns up to limit messages oldest first. Rows are
	// locked and rows locked by another relay are skipped.
	ListUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}
