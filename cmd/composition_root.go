package cmd

import (
	"log/slog"
	"time"

	httpin "mealorder/internal/adapters/in/http"
	"mealorder/internal/adapters/out/postgres"
	"mealorder/internal/adapters/out/postgres/zonerepo"
	"mealorder/internal/core/application/usecases/commands"
	"mealorder/internal/core/application/usecases/queries"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/core/ports"
	"mealorder/internal/jobs"
	"mealorder/internal/pkg/clock"
	"mealorder/internal/pkg/errs"
	"mealorder/internal/pkg/retry"

	"gorm.io/gorm"
)

// CompositionRoot builds every use case from one database and one set of
// domain services. Domain services are stateless and shared.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	cfg        Config
	logger     *slog.Logger
	clock      clock.Clock
	notifier   ports.LowStockNotifier
	publisher  ports.EventPublisher

	scheduler *services.DeliveryScheduler
	resolver  *services.ZoneResolver
	numbers   *services.OrderNumberGenerator
}

func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	notifier ports.LowStockNotifier,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	loc, err := cfg.Business.Location()
	if err != nil {
		return nil, err
	}
	scheduler, err := services.NewDeliveryScheduler(cfg.Business.DeliveryRules.Rules(), loc)
	if err != nil {
		return nil, errs.Wrap(err, "delivery rules")
	}
	numbers, err := services.NewOrderNumberGenerator(cfg.Business.OrderNumberPrefix, cfg.Business.SequenceWidth, loc)
	if err != nil {
		return nil, errs.Wrap(err, "order numbers")
	}
	threshold, err := cfg.Business.Threshold()
	if err != nil {
		return nil, err
	}
	pattern, err := cfg.Business.PostalCodeRegexp()
	if err != nil {
		return nil, err
	}

	return &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		cfg:        cfg,
		logger:     logger,
		clock:      clock.NewRealClock(),
		notifier:   notifier,
		publisher:  publisher,
		scheduler:  scheduler,
		resolver:   services.NewZoneResolver(pattern, threshold),
		numbers:    numbers,
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() (*commands.CreateOrderCommandHandler, error) {
	return commands.NewCreateOrderCommandHandler(commands.CreateOrderDeps{
		UoWFactory:   c.orderUoWFactory(),
		Scheduler:    c.scheduler,
		ZoneResolver: c.resolver,
		Reservations: services.NewReservationService(),
		Numbers:      c.numbers,
		Notifier:     c.notifier,
		Clock:        c.clock,
		TxPolicy:     retry.DefaultPolicy(),
		NumberingPolicy: retry.Policy{
			MaxAttempts:         5,
			InitialInterval:     20 * time.Millisecond,
			MaxInterval:         500 * time.Millisecond,
			Multiplier:          2,
			RandomizationFactor: 0.2,
		},
		Timeout: c.cfg.Business.WorkflowTimeout,
		Logger:  c.logger,
	})
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.orderUoWFactory(), services.NewReservationService(), c.clock, retry.DefaultPolicy(), c.logger)
}

func (c *CompositionRoot) CreateRecordPaymentStatusCommandHandler() commands.RecordPaymentStatusCommandHandler {
	return commands.NewRecordPaymentStatusCommandHandler(c.orderUoWFactory(), retry.DefaultPolicy(), c.logger)
}

func (c *CompositionRoot) CreateAdjustInventoryCommandHandler() commands.AdjustInventoryCommandHandler {
	var f commands.InventoryUoWFactory = FuncInventoryUoWFactory(func() commands.InventoryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdjustInventoryCommandHandler(
		f, services.NewInventoryLedger(), c.notifier, retry.DefaultPolicy(), c.logger)
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRelayOutboxCommandHandler(f, c.publisher, c.clock, c.logger)
}

func (c *CompositionRoot) CreateCheckServiceabilityQueryHandler() queries.CheckServiceabilityQueryHandler {
	return queries.NewCheckServiceabilityQueryHandler(
		zonerepo.NewGormZoneRepository(c.gormDB), c.resolver, c.scheduler, c.clock)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetLowStockMealsQueryHandler() queries.GetLowStockMealsQueryHandler {
	return queries.NewGetLowStockMealsQueryHandler(c.gormDB)
}

// HTTPHandlers wires the use cases served by the API.
func (c *CompositionRoot) HTTPHandlers() (httpin.Handlers, error) {
	createOrder, err := c.CreateCreateOrderCommandHandler()
	if err != nil {
		return httpin.Handlers{}, err
	}
	return httpin.Handlers{
		CreateOrder:         createOrder,
		CancelOrder:         c.CreateCancelOrderCommandHandler(),
		RecordPaymentStatus: c.CreateRecordPaymentStatusCommandHandler(),
		AdjustInventory:     c.CreateAdjustInventoryCommandHandler(),
		CheckServiceability: c.CreateCheckServiceabilityQueryHandler(),
		GetOrder:            c.CreateGetOrderQueryHandler(),
	}, nil
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateRelayOutboxCommandHandler(),
		c.CreateGetLowStockMealsQueryHandler(),
		c.notifier,
		jobs.Schedules{
			OutboxRelay:   c.cfg.Jobs.OutboxRelaySchedule,
			LowStockSweep: c.cfg.Jobs.LowStockSweepSchedule,
		},
		c.cfg.Jobs.RelayBatchSize,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncInventoryUoWFactory func() commands.InventoryUoW

func (f FuncInventoryUoWFactory) Create() commands.InventoryUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
