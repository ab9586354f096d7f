package commands_test

import (
	"context"
	"testing"
	"time"

	"mealorder/internal/adapters/out/memory"
	"mealorder/internal/core/application/usecases/commands"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/clock"
	"mealorder/internal/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLowStockNotifier struct{ mock.Mock }

func (m *MockLowStockNotifier) Notify(ctx context.Context, signal meal.LowStockSignal) {
	m.Called(ctx, signal)
}

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

type inventoryUoWFactory func() commands.InventoryUoW

func (f inventoryUoWFactory) Create() commands.InventoryUoW { return f() }

type outboxUoWFactory func() commands.OutboxUoW

func (f outboxUoWFactory) Create() commands.OutboxUoW { return f() }

func vancouver(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Vancouver")
	require.NoError(t, err)
	return loc
}

// fixture is a memory store with one serviced zone and a clock on Monday
// 2024-01-15 10:00 in Vancouver. The next Sunday's deadline is Tuesday 18:00.
type fixture struct {
	store    *memory.Store
	clock    *clock.MockClock
	loc      *time.Location
	notifier *MockLowStockNotifier
	zoneID   kernel.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := vancouver(t)
	f := &fixture{
		store:    memory.NewStore(),
		clock:    clock.NewMockClock(time.Date(2024, time.January, 15, 10, 0, 0, 0, loc)),
		loc:      loc,
		notifier: new(MockLowStockNotifier),
		zoneID:   kernel.NewUUID(),
	}

	z, err := zone.NewZone(f.zoneID, "Downtown", []string{"V6B", "V6C"}, kernel.MustMoney("5.99"), true)
	require.NoError(t, err)
	f.seed(t, func(ctx context.Context, uow ports.UnitOfWork) error {
		return uow.ZoneRepository().Add(ctx, z)
	})
	return f
}

func (f *fixture) seed(t *testing.T, fn func(ctx context.Context, uow ports.UnitOfWork) error) {
	t.Helper()
	uow := memory.NewUnitOfWorkFactory(f.store).Create()
	require.NoError(t, uow.Begin(t.Context()))
	require.NoError(t, fn(t.Context(), uow))
	require.NoError(t, uow.Commit(t.Context()))
}

func (f *fixture) addMeal(t *testing.T, name, price string, count, threshold int) kernel.UUID {
	t.Helper()
	id := kernel.NewUUID()
	m, err := meal.NewMeal(id, name, kernel.MustMoney(price), count, threshold)
	require.NoError(t, err)
	f.seed(t, func(ctx context.Context, uow ports.UnitOfWork) error {
		return uow.MealRepository().Add(ctx, m)
	})
	return id
}

func (f *fixture) count(t *testing.T, id kernel.UUID) int {
	t.Helper()
	n, ok := f.store.MealCount(id)
	require.True(t, ok)
	return n
}

func (f *fixture) orderFactory() commands.OrderUoWFactory {
	factory := memory.NewUnitOfWorkFactory(f.store)
	return orderUoWFactory(func() commands.OrderUoW { return factory.Create() })
}

func (f *fixture) inventoryFactory() commands.InventoryUoWFactory {
	factory := memory.NewUnitOfWorkFactory(f.store)
	return inventoryUoWFactory(func() commands.InventoryUoW { return factory.Create() })
}

func (f *fixture) outboxFactory() commands.OutboxUoWFactory {
	factory := memory.NewUnitOfWorkFactory(f.store)
	return outboxUoWFactory(func() commands.OutboxUoW { return factory.Create() })
}

func (f *fixture) createHandler(t *testing.T) *commands.CreateOrderCommandHandler {
	t.Helper()
	return f.createHandlerWith(t, nil)
}

// createHandlerWith lets a test override deps before the handler is built.
func (f *fixture) createHandlerWith(t *testing.T, override func(*commands.CreateOrderDeps)) *commands.CreateOrderCommandHandler {
	t.Helper()
	scheduler, err := services.NewDeliveryScheduler(services.DefaultDeliveryRules(), f.loc)
	require.NoError(t, err)
	numbers, err := services.NewOrderNumberGenerator("FB", 3, f.loc)
	require.NoError(t, err)

	deps := commands.CreateOrderDeps{
		UoWFactory:      f.orderFactory(),
		Scheduler:       scheduler,
		ZoneResolver:    services.NewZoneResolver(nil, kernel.MustMoney("75.00")),
		Reservations:    services.NewReservationService(),
		Numbers:         numbers,
		Notifier:        f.notifier,
		Clock:           f.clock,
		TxPolicy:        retry.NoDelay(3),
		NumberingPolicy: retry.NoDelay(3),
	}
	if override != nil {
		override(&deps)
	}

	h, err := commands.NewCreateOrderCommandHandler(deps)
	require.NoError(t, err)
	return h
}

// sunday is the delivery date used by most tests.
func sunday() time.Time {
	return time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC)
}

func orderCommand(t *testing.T, postalCode string, lines ...services.Line) commands.CreateOrderCommand {
	t.Helper()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "customer-1", sunday(), postalCode, lines, "")
	require.NoError(t, err)
	return cmd
}
