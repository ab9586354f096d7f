package postgres_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	postgres_adapter "mealorder/internal/adapters/out/postgres"
	"mealorder/internal/adapters/out/postgres/pgtest"
	"mealorder/internal/core/application/usecases/commands"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/core/ports"
	"mealorder/internal/pkg/clock"
	"mealorder/internal/pkg/retry"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type orderUoWFactory func() commands.OrderUoW

func (f orderUoWFactory) Create() commands.OrderUoW { return f() }

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, meal.LowStockSignal) {}

// WorkflowIntegrationTestSuite runs the create order workflow against a real
// database where concurrency is settled by SERIALIZABLE transactions.
type WorkflowIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   *postgres_adapter.GormUnitOfWorkFactory
	handler   *commands.CreateOrderCommandHandler
}

func (suite *WorkflowIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), "")
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)

	loc, err := time.LoadLocation("America/Vancouver")
	suite.Require().NoError(err)
	scheduler, err := services.NewDeliveryScheduler(services.DefaultDeliveryRules(), loc)
	suite.Require().NoError(err)
	numbers, err := services.NewOrderNumberGenerator("FB", 3, loc)
	suite.Require().NoError(err)

	contention := retry.Policy{MaxAttempts: 10, InitialInterval: 10 * time.Millisecond, MaxInterval: 100 * time.Millisecond, Multiplier: 2, RandomizationFactor: 0.5}
	suite.handler, err = commands.NewCreateOrderCommandHandler(commands.CreateOrderDeps{
		UoWFactory:      orderUoWFactory(func() commands.OrderUoW { return suite.factory.Create() }),
		Scheduler:       scheduler,
		ZoneResolver:    services.NewZoneResolver(nil, kernel.MustMoney("75.00")),
		Reservations:    services.NewReservationService(),
		Numbers:         numbers,
		Notifier:        discardNotifier{},
		Clock:           clock.NewMockClock(time.Date(2024, time.January, 15, 10, 0, 0, 0, loc)),
		TxPolicy:        contention,
		NumberingPolicy: retry.NoDelay(3),
		Logger:          slog.Default(),
	})
	suite.Require().NoError(err)
}

func (suite *WorkflowIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))

	ctx := context.Background()
	uow := suite.factory.Create()
	z, err := zone.NewZone(kernel.NewUUID(), "Downtown", []string{"V6B", "V6C"}, kernel.MustMoney("5.99"), true)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.ZoneRepository().Add(ctx, z))
}

func (suite *WorkflowIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *WorkflowIntegrationTestSuite) addMeal(count int) kernel.UUID {
	m, err := meal.NewMeal(kernel.NewUUID(), "Butter Chicken", kernel.MustMoney("14.50"), count, 0)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.factory.Create().MealRepository().Add(context.Background(), m))
	return m.ID()
}

func (suite *WorkflowIntegrationTestSuite) count(id kernel.UUID) int {
	m, err := suite.factory.Create().MealRepository().Get(context.Background(), id)
	suite.Require().NoError(err)
	return m.AvailableCount()
}

func (suite *WorkflowIntegrationTestSuite) command(mealID kernel.UUID, quantity int) commands.CreateOrderCommand {
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), "customer-1",
		time.Date(2024, time.January, 21, 0, 0, 0, 0, time.UTC), "V6B 1A1",
		[]services.Line{{MealID: mealID, Quantity: quantity}}, "")
	suite.Require().NoError(err)
	return cmd
}

func (suite *WorkflowIntegrationTestSuite) runConcurrently(cmds ...commands.CreateOrderCommand) ([]*order.Order, []error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		created  []*order.Order
		failures []error
	)
	for _, cmd := range cmds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := suite.handler.Handle(context.Background(), cmd)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			created = append(created, o)
		}()
	}
	wg.Wait()
	return created, failures
}

func (suite *WorkflowIntegrationTestSuite) TestCreateOrder_PersistsEverything() {
	curry := suite.addMeal(10)

	o, err := suite.handler.Handle(context.Background(), suite.command(curry, 3))

	suite.Require().NoError(err)
	suite.Equal("FB20240115001", o.Number().String())
	suite.Equal(7, suite.count(curry))

	stored, err := suite.factory.Create().OrderRepository().Get(context.Background(), o.ID())
	suite.Require().NoError(err)
	suite.Equal(o.Number().String(), stored.Number().String())
	suite.Equal("49.49", stored.Total().String())

	pending, err := suite.factory.Create().OutboxRepository().ListUnpublished(context.Background(), 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)
	suite.Equal(ports.TopicOrderCreated, pending[0].Topic)
}

func (suite *WorkflowIntegrationTestSuite) TestCreateOrder_FailureLeavesNoTrace() {
	curry := suite.addMeal(2)

	_, err := suite.handler.Handle(context.Background(), suite.command(curry, 3))

	suite.Require().ErrorIs(err, meal.ErrInsufficientInventory)
	suite.Equal(2, suite.count(curry))
	var orders int64
	suite.Require().NoError(suite.db.Table("orders").Count(&orders).Error)
	suite.Zero(orders)
}

func (suite *WorkflowIntegrationTestSuite) TestLastUnits_ExactlyOneOrderWins() {
	curry := suite.addMeal(3)

	created, failures := suite.runConcurrently(suite.command(curry, 2), suite.command(curry, 2))

	suite.Len(created, 1)
	suite.Require().Len(failures, 1)
	suite.Require().ErrorIs(failures[0], meal.ErrInsufficientInventory)
	suite.Equal(1, suite.count(curry))
}

func (suite *WorkflowIntegrationTestSuite) TestSameDay_NumbersAreSequential() {
	curry := suite.addMeal(100)

	created, failures := suite.runConcurrently(suite.command(curry, 1), suite.command(curry, 1))

	suite.Empty(failures)
	suite.Require().Len(created, 2)
	numbers := []string{created[0].Number().String(), created[1].Number().String()}
	suite.ElementsMatch([]string{"FB20240115001", "FB20240115002"}, numbers)
	suite.Equal(98, suite.count(curry))
}

func TestWorkflowIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowIntegrationTestSuite))
}
