package commands

import (
	"context"
	"log/slog"

	"mealorder/internal/core/application/events"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/clock"
	"mealorder/internal/pkg/retry"
)

// CancelOrderCommandHandler cancels a pending or confirmed order and puts its
// quantities back on the shelf. The order row, the restock and the
// order.cancelled outbox row commit together.
type CancelOrderCommandHandler struct {
	uowFactory   OrderUoWFactory
	reservations services.ReservationService
	clock        clock.Clock
	txPolicy     retry.Policy
	logger       *slog.Logger
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	reservations services.ReservationService,
	clk clock.Clock,
	txPolicy retry.Policy,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory:   uowFactory,
		reservations: reservations,
		clock:        clk,
		txPolicy:     txPolicy,
		logger:       logger.With("component", "CancelOrderCommandHandler"),
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, newWorkflowError(StepValidating, err)
	}

	var cancelled *order.Order
	err := runInTransaction(ctx, h.uowFactory.Create, h.txPolicy, func(ctx context.Context, uow OrderUoW) error {
		o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		now := h.clock.Now()
		if err = o.Cancel(cmd.Reason(), now); err != nil {
			return err
		}

		// The order row is written first: on a store without rollback a
		// failed restock then leaves a cancelled order rather than lost stock.
		if err = markDatabase(uow.OrderRepository().Update(ctx, o)); err != nil {
			return err
		}

		if err = h.reservations.Release(ctx, uow.MealRepository(), linesOf(o)); err != nil {
			return err
		}

		msg, err := events.OrderCancelledOutbox(o, now)
		if err != nil {
			return err
		}
		if err = markDatabase(uow.OutboxRepository().Add(ctx, msg)); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return nil, newWorkflowError(StepCancelling, err)
	}

	h.logger.InfoContext(ctx, "order cancelled",
		"orderId", cancelled.ID().String(),
		"orderNumber", cancelled.Number().String(),
		"reason", cancelled.CancelReason(),
	)
	return cancelled, nil
}

func linesOf(o *order.Order) []services.Line {
	items := o.Items()
	lines := make([]services.Line, len(items))
	for i, item := range items {
		lines[i] = services.Line{MealID: item.MealID(), Quantity: item.Quantity()}
	}
	return lines
}
