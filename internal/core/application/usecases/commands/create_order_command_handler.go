package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mealorder/internal/core/application/events"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/clock"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/retry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultWorkflowTimeout = 10 * time.Second
	tracerName             = "mealorder/commands"
	numberingSavePoint     = "order_number"
)

// CreateOrderDeps collects what the order workflow needs. Logger, Tracer,
// Clock and Timeout fall back to defaults when left empty.
type CreateOrderDeps struct {
	UoWFactory      OrderUoWFactory
	Scheduler       *services.DeliveryScheduler
	ZoneResolver    *services.ZoneResolver
	Reservations    services.ReservationService
	Numbers         *services.OrderNumberGenerator
	Notifier        ports.LowStockNotifier
	Clock           clock.Clock
	TxPolicy        retry.Policy
	NumberingPolicy retry.Policy
	Timeout         time.Duration
	Logger          *slog.Logger
	Tracer          trace.Tracer
}

// CreateOrderCommandHandler runs the order workflow: validate, reserve,
// persist, number. Reservation, order rows, number and the order.created
// outbox row commit together or not at all.
//
// Example:
//
//	handler, err := NewCreateOrderCommandHandler(deps)
//	if err != nil {
//	    return err
//	}
//	created, err := handler.Handle(ctx, cmd)
//	var wfErr *WorkflowError
//	if errors.As(err, &wfErr) && wfErr.Retryable() {
//	    // ask the client to try again
//	}
type CreateOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	scheduler       *services.DeliveryScheduler
	zones           *services.ZoneResolver
	reservations    services.ReservationService
	numbers         *services.OrderNumberGenerator
	notifier        ports.LowStockNotifier
	clock           clock.Clock
	txPolicy        retry.Policy
	numberingPolicy retry.Policy
	timeout         time.Duration
	logger          *slog.Logger
	tracer          trace.Tracer
}

func NewCreateOrderCommandHandler(deps CreateOrderDeps) (*CreateOrderCommandHandler, error) {
	if deps.UoWFactory == nil {
		return nil, errs.NewValueIsRequiredError("uowFactory")
	}
	if deps.Scheduler == nil {
		return nil, errs.NewValueIsRequiredError("scheduler")
	}
	if deps.ZoneResolver == nil {
		return nil, errs.NewValueIsRequiredError("zoneResolver")
	}
	if deps.Numbers == nil {
		return nil, errs.NewValueIsRequiredError("numbers")
	}
	if deps.Notifier == nil {
		return nil, errs.NewValueIsRequiredError("notifier")
	}

	h := &CreateOrderCommandHandler{
		uowFactory:      deps.UoWFactory,
		scheduler:       deps.Scheduler,
		zones:           deps.ZoneResolver,
		reservations:    deps.Reservations,
		numbers:         deps.Numbers,
		notifier:        deps.Notifier,
		clock:           deps.Clock,
		txPolicy:        deps.TxPolicy,
		numberingPolicy: deps.NumberingPolicy,
		timeout:         deps.Timeout,
		logger:          deps.Logger,
		tracer:          deps.Tracer,
	}
	if h.clock == nil {
		h.clock = clock.NewRealClock()
	}
	if h.txPolicy.MaxAttempts == 0 {
		h.txPolicy = retry.DefaultPolicy()
	}
	if h.numberingPolicy.MaxAttempts == 0 {
		h.numberingPolicy = retry.DefaultPolicy()
	}
	if h.timeout <= 0 {
		h.timeout = DefaultWorkflowTimeout
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With("component", "CreateOrderCommandHandler")
	if h.tracer == nil {
		h.tracer = otel.Tracer(tracerName)
	}
	return h, nil
}

// Handle returns the numbered order. Every error is a *WorkflowError.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, newWorkflowError(StepValidating, err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	ctx, span := h.tracer.Start(ctx, "CreateOrder", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID().String()),
		attribute.String("order.postal_code", cmd.PostalCode()),
	))
	defer span.End()

	now := h.clock.Now()

	var deliveryDate time.Time
	err := h.step(ctx, StepValidating, func(context.Context) error {
		var checkErr error
		deliveryDate, checkErr = h.scheduler.CheckOrderable(now, cmd.DeliveryDate())
		return checkErr
	})
	if err != nil {
		return nil, h.fail(ctx, span, StepValidating, err)
	}

	var (
		created  *order.Order
		lowStock []meal.LowStockSignal
	)
	err = runInTransaction(ctx, h.uowFactory.Create, h.txPolicy, func(ctx context.Context, uow OrderUoW) error {
		o, signals, runErr := h.run(ctx, uow, cmd, now, deliveryDate)
		if runErr != nil {
			return runErr
		}
		created, lowStock = o, signals
		return nil
	})
	if err != nil {
		return nil, h.fail(ctx, span, StepCompleting, err)
	}

	for _, signal := range lowStock {
		h.notifier.Notify(ctx, signal)
	}

	span.SetAttributes(attribute.String("order.number", created.Number().String()))
	h.logger.InfoContext(ctx, "order created",
		"orderId", created.ID().String(),
		"orderNumber", created.Number().String(),
		"deliveryDate", created.DeliveryDate().Format(time.DateOnly),
		"total", created.Total().String(),
	)
	return created, nil
}

// run is one transaction attempt. When the unit of work cannot roll back,
// completed steps are compensated before returning the error.
func (h *CreateOrderCommandHandler) run(
	ctx context.Context,
	uow OrderUoW,
	cmd CreateOrderCommand,
	now time.Time,
	deliveryDate time.Time,
) (*order.Order, []meal.LowStockSignal, error) {
	sg := newSaga(h.logger)

	o, signals, err := h.place(ctx, uow, sg, cmd, now, deliveryDate)
	if err != nil && !uow.SupportsRollback() {
		if compErr := sg.compensate(ctx); compErr != nil {
			err = errors.Join(err, errs.Mark(compErr, ErrDatabase))
		}
	}
	return o, signals, err
}

func (h *CreateOrderCommandHandler) place(
	ctx context.Context,
	uow OrderUoW,
	sg *saga,
	cmd CreateOrderCommand,
	now time.Time,
	deliveryDate time.Time,
) (*order.Order, []meal.LowStockSignal, error) {
	var resolution services.ZoneResolution
	err := h.step(ctx, StepValidating, func(ctx context.Context) error {
		var resolveErr error
		resolution, resolveErr = h.zones.Resolve(ctx, uow.ZoneRepository(), cmd.PostalCode())
		return resolveErr
	})
	if err != nil {
		return nil, nil, err
	}

	var reserved services.ReservationResult
	err = h.step(ctx, StepReserving, func(ctx context.Context) error {
		var reserveErr error
		reserved, reserveErr = h.reservations.Reserve(ctx, uow.MealRepository(), cmd.Lines())
		return reserveErr
	})
	if len(reserved.Reservations) > 0 {
		applied := reserved.Lines()
		sg.add("release inventory", func(ctx context.Context) error {
			return h.reservations.Release(ctx, uow.MealRepository(), applied)
		})
	}
	if err != nil {
		return nil, nil, err
	}

	var created *order.Order
	err = h.step(ctx, StepPersisting, func(ctx context.Context) error {
		var buildErr error
		created, buildErr = h.buildOrder(cmd, resolution, reserved, now, deliveryDate)
		if buildErr != nil {
			return buildErr
		}
		return markDatabase(uow.OrderRepository().Add(ctx, created))
	})
	if err != nil {
		return nil, nil, err
	}
	sg.add("delete order", func(ctx context.Context) error {
		return uow.OrderRepository().Delete(ctx, created.ID())
	})

	err = h.step(ctx, StepNumbering, func(ctx context.Context) error {
		return h.assignNumber(ctx, uow, created)
	})
	if err != nil {
		return nil, nil, err
	}

	err = h.step(ctx, StepCompleting, func(ctx context.Context) error {
		msg, msgErr := events.OrderCreatedOutbox(created, now)
		if msgErr != nil {
			return msgErr
		}
		return markDatabase(uow.OutboxRepository().Add(ctx, msg))
	})
	if err != nil {
		return nil, nil, err
	}

	return created, reserved.LowStock, nil
}

func (h *CreateOrderCommandHandler) buildOrder(
	cmd CreateOrderCommand,
	resolution services.ZoneResolution,
	reserved services.ReservationResult,
	now time.Time,
	deliveryDate time.Time,
) (*order.Order, error) {
	items := make([]*order.Item, 0, len(reserved.Reservations))
	subtotal := kernel.ZeroMoney()
	for _, r := range reserved.Reservations {
		item, err := order.NewItem(kernel.NewUUID(), r.MealID, r.MealName, r.Quantity, r.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		subtotal = subtotal.Add(item.TotalPrice())
	}

	quote := h.zones.Quote(resolution.Zone, subtotal, reserved.TotalQuantity())

	return order.NewOrder(order.Draft{
		ID:             cmd.OrderID(),
		CustomerID:     cmd.CustomerID(),
		PostalCode:     resolution.PostalCode.String(),
		ZoneID:         resolution.Zone.ID(),
		DeliveryDate:   deliveryDate,
		DeliveryWindow: h.scheduler.WindowLabel(deliveryDate),
		Notes:          cmd.Notes(),
		Items:          items,
		DeliveryFee:    quote.Fee,
		CreatedAt:      now,
	})
}

// assignNumber draws numbers until one is stored. Only unique violations are
// retried; the savepoint keeps a failed write from aborting the transaction.
func (h *CreateOrderCommandHandler) assignNumber(ctx context.Context, uow OrderUoW, o *order.Order) error {
	var assigned order.Number
	err := h.numberingPolicy.Do(ctx, isUniqueViolation, func(attempt int) error {
		n, err := h.numbers.Next(ctx, uow.OrderNumberCounter(), o.CreatedAt())
		if err != nil {
			return err
		}

		if uow.SupportsRollback() {
			if err = uow.SavePoint(ctx, numberingSavePoint); err != nil {
				return err
			}
		}

		if err = uow.OrderRepository().SetNumber(ctx, o.ID(), n); err != nil {
			if uow.SupportsRollback() && isUniqueViolation(err) {
				if rbErr := uow.RollbackTo(ctx, numberingSavePoint); rbErr != nil {
					return errs.Wrap(rbErr, "rollback to savepoint")
				}
			}
			h.logger.WarnContext(ctx, "order number rejected",
				"orderId", o.ID().String(), "number", n.String(), "attempt", attempt, "error", err)
			return err
		}

		assigned = n
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			return errs.Mark(err, ErrSchedulingConflict)
		}
		return err
	}

	return o.AssignNumber(assigned)
}

// step runs fn in its own span and tags a failure with the step.
func (h *CreateOrderCommandHandler) step(ctx context.Context, step Step, fn func(ctx context.Context) error) error {
	ctx, span := h.tracer.Start(ctx, "CreateOrder."+string(step))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return atStep(step, err)
	}
	return nil
}

func (h *CreateOrderCommandHandler) fail(ctx context.Context, span trace.Span, fallback Step, err error) error {
	wfErr := newWorkflowError(fallback, err)

	var we *WorkflowError
	if errors.As(wfErr, &we) {
		span.SetAttributes(
			attribute.String("workflow.step", string(we.Step)),
			attribute.String("workflow.error_kind", we.Kind.String()),
		)
		if we.Kind == KindInternal {
			span.SetStatus(codes.Error, err.Error())
			h.logger.ErrorContext(ctx, "order workflow failed", "step", we.Step, "error", err)
		} else {
			h.logger.InfoContext(ctx, "order rejected", "step", we.Step, "kind", we.Kind.String(), "error", err)
		}
	}
	return wfErr
}

// markDatabase tags storage failures that are not retryable conflicts.
func markDatabase(err error) error {
	if err == nil || isSerializationConflict(err) || isUniqueViolation(err) || errs.IsValidation(err) {
		return err
	}
	return errs.Mark(err, ErrDatabase)
}
