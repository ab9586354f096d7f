// Package outboxrepo stores events written in the same transaction as the
// state change they describe.
package outboxrepo

import (
	"context"
	"time"

	"mealorder/internal/adapters/out/postgres/pgerr"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Topic       string         `gorm:"type:varchar(128);not null"`
	Key         string         `gorm:"column:message_key;type:varchar(128);not null"`
	Payload     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"not null;index"`
	PublishedAt *time.Time     `gorm:"index"`
}

func (OutboxDTO) TableName() string {
	return "outbox_messages"
}

// GormOutboxRepository implements ports.OutboxRepository using GORM.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

func (r *GormOutboxRepository) Add(ctx context.Context, msg ports.OutboxMessage) error {
	dto := OutboxDTO{
		ID:          msg.ID.Bytes(),
		Topic:       msg.Topic,
		Key:         msg.Key,
		Payload:     datatypes.JSON(msg.Payload),
		CreatedAt:   msg.CreatedAt,
		PublishedAt: msg.PublishedAt,
	}
	return pgerr.Classify(r.db.WithContext(ctx).Create(&dto).Error)
}

// ListUnpublished locks the returned rows with SKIP LOCKED so two relays
// never publish the same batch.
func (r *GormOutboxRepository) ListUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	var dtos []OutboxDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Classify(err)
	}

	msgs := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromBytes(dto.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		msgs = append(msgs, ports.OutboxMessage{
			ID:          id,
			Topic:       dto.Topic,
			Key:         dto.Key,
			Payload:     []byte(dto.Payload),
			CreatedAt:   dto.CreatedAt,
			PublishedAt: dto.PublishedAt,
		})
	}
	return msgs, nil
}

func (r *GormOutboxRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, len(ids))
	for i, id := range ids {
		raw[i] = id.Bytes()
	}

	return pgerr.Classify(r.db.WithContext(ctx).
		Model(&OutboxDTO{}).
		Where("id IN ?", raw).
		Update("published_at", at).Error)
}
