package commands

import (
	"context"
	"log/slog"

	"mealorder/internal/core/domain/services"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/retry"
)

// AdjustInventoryCommandHandler applies a SET, ADD or SUBTRACT to a meal's
// count. A low stock signal is sent only after commit.
type AdjustInventoryCommandHandler struct {
	uowFactory InventoryUoWFactory
	ledger     services.InventoryLedger
	notifier   ports.LowStockNotifier
	txPolicy   retry.Policy
	logger     *slog.Logger
}

func NewAdjustInventoryCommandHandler(
	uowFactory InventoryUoWFactory,
	ledger services.InventoryLedger,
	notifier ports.LowStockNotifier,
	txPolicy retry.Policy,
	logger *slog.Logger,
) AdjustInventoryCommandHandler {
	return AdjustInventoryCommandHandler{
		uowFactory: uowFactory,
		ledger:     ledger,
		notifier:   notifier,
		txPolicy:   txPolicy,
		logger:     logger.With("component", "AdjustInventoryCommandHandler"),
	}
}

func (h AdjustInventoryCommandHandler) Handle(ctx context.Context, cmd AdjustInventoryCommand) (services.LedgerEntry, error) {
	if err := cmd.Validate(); err != nil {
		return services.LedgerEntry{}, newWorkflowError(StepValidating, err)
	}

	var entry services.LedgerEntry
	err := runInTransaction(ctx, h.uowFactory.Create, h.txPolicy, func(ctx context.Context, uow InventoryUoW) error {
		var err error
		entry, err = h.ledger.Adjust(ctx, uow.MealRepository(), cmd.MealID(), cmd.Operation(), cmd.Amount())
		return err
	})
	if err != nil {
		return services.LedgerEntry{}, newWorkflowError(StepAdjusting, err)
	}

	h.logger.InfoContext(ctx, "inventory adjusted",
		"mealId", cmd.MealID().String(),
		"operation", cmd.Operation().String(),
		"amount", cmd.Amount(),
		"previous", entry.Adjustment.Previous,
		"current", entry.Adjustment.Current,
	)

	if entry.LowStock != nil {
		h.notifier.Notify(ctx, *entry.LowStock)
	}
	return entry, nil
}
