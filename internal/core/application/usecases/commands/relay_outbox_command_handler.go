package commands

import (
	"context"
	"log/slog"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/clock"
	"mealorder/internal/pkg/retry"
)

// RelayOutboxCommandHandler publishes pending outbox rows. Rows are marked
// only after the broker accepted them, so delivery is at least once.
type RelayOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	publisher  ports.EventPublisher
	clock      clock.Clock
	logger     *slog.Logger
}

func NewRelayOutboxCommandHandler(
	uowFactory OutboxUoWFactory,
	publisher ports.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clk,
		logger:     logger.With("component", "RelayOutboxCommandHandler"),
	}
}

// Handle returns how many messages were published.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	published := 0
	err := runInTransaction(ctx, h.uowFactory.Create, retry.NoDelay(1), func(ctx context.Context, uow OutboxUoW) error {
		pending, err := uow.OutboxRepository().ListUnpublished(ctx, cmd.BatchSize())
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return nil
		}

		msgs := make([]ports.Message, len(pending))
		ids := make([]kernel.UUID, len(pending))
		for i, p := range pending {
			msgs[i] = ports.Message{Topic: p.Topic, Key: p.Key, Value: p.Payload}
			ids[i] = p.ID
		}

		if err = h.publisher.Publish(ctx, msgs...); err != nil {
			return err
		}

		if err = uow.OutboxRepository().MarkPublished(ctx, ids, h.clock.Now()); err != nil {
			return err
		}

		published = len(pending)
		return nil
	})
	if err != nil {
		return 0, newWorkflowError(StepRelaying, err)
	}

	if published > 0 {
		h.logger.DebugContext(ctx, "outbox relayed", "count", published)
	}
	return published, nil
}
