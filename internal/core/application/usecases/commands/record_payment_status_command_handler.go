package commands

import (
	"context"
	"log/slog"

	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/pkg/retry"
)

type RecordPaymentStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	txPolicy   retry.Policy
	logger     *slog.Logger
}

func NewRecordPaymentStatusCommandHandler(
	uowFactory OrderUoWFactory,
	txPolicy retry.Policy,
	logger *slog.Logger,
) RecordPaymentStatusCommandHandler {
	return RecordPaymentStatusCommandHandler{
		uowFactory: uowFactory,
		txPolicy:   txPolicy,
		logger:     logger.With("component", "RecordPaymentStatusCommandHandler"),
	}
}

// Handle applies the payment outcome. PAID confirms a pending order.
func (h RecordPaymentStatusCommandHandler) Handle(ctx context.Context, cmd RecordPaymentStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, newWorkflowError(StepValidating, err)
	}

	var updated *order.Order
	err := runInTransaction(ctx, h.uowFactory.Create, h.txPolicy, func(ctx context.Context, uow OrderUoW) error {
		o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
		if err != nil {
			return err
		}

		if err = o.MarkPayment(cmd.Status()); err != nil {
			return err
		}

		if err = markDatabase(uow.OrderRepository().Update(ctx, o)); err != nil {
			return err
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, newWorkflowError(StepPayment, err)
	}

	h.logger.InfoContext(ctx, "payment status recorded",
		"orderId", updated.ID().String(),
		"paymentStatus", updated.PaymentStatus().String(),
		"status", updated.Status().String(),
	)
	return updated, nil
}
