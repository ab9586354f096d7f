package mealrepo_test

import (
	"context"
	"testing"

	"mealorder/internal/adapters/out/postgres/mealrepo"
	"mealorder/internal/adapters/out/postgres/pgtest"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type MealRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *mealrepo.GormMealRepository
}

func (suite *MealRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background(), "")
	suite.container = container
	suite.Require().NoError(err)
	suite.db = db
}

func (suite *MealRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.repository = mealrepo.NewGormMealRepository(suite.db)
}

func (suite *MealRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *MealRepositoryIntegrationTestSuite) add(name string, count, threshold int) *meal.Meal {
	m, err := meal.NewMeal(kernel.NewUUID(), name, kernel.MustMoney("14.50"), count, threshold)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(context.Background(), m))
	return m
}

func (suite *MealRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	m := suite.add("Butter Chicken", 12, 3)

	got, err := suite.repository.Get(context.Background(), m.ID())

	suite.Require().NoError(err)
	suite.Equal("Butter Chicken", got.Name())
	suite.Equal("14.50", got.Price().String())
	suite.Equal(12, got.AvailableCount())
	suite.Equal(3, got.LowStockThreshold())
	suite.True(got.IsActive())
}

func (suite *MealRepositoryIntegrationTestSuite) TestUpdate_WritesCountAndFlags() {
	ctx := context.Background()
	m := suite.add("Dal Makhani", 10, 2)
	_, err := m.Adjust(meal.Subtract, 4)
	suite.Require().NoError(err)
	m.Deactivate()

	suite.Require().NoError(suite.repository.Update(ctx, m))

	got, err := suite.repository.GetForUpdate(ctx, m.ID())
	suite.Require().NoError(err)
	suite.Equal(6, got.AvailableCount())
	suite.False(got.IsActive())
}

func (suite *MealRepositoryIntegrationTestSuite) TestNegativeCount_RejectedByConstraint() {
	m := suite.add("Samosa", 1, 0)

	err := suite.db.Exec("UPDATE meals SET available_count = -1 WHERE id = ?", m.ID().Bytes()).Error

	suite.Require().Error(err)
}

func (suite *MealRepositoryIntegrationTestSuite) TestListForUpdate_AscendingIDsSkipsUnknown() {
	a := suite.add("Aloo Gobi", 5, 0)
	b := suite.add("Chana Masala", 5, 0)
	ids := []kernel.UUID{a.ID(), b.ID(), kernel.NewUUID()}

	got, err := suite.repository.ListForUpdate(context.Background(), ids)

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Negative(got[0].ID().Compare(got[1].ID()))
}

func (suite *MealRepositoryIntegrationTestSuite) TestListLowStock_ActiveAtOrBelowThreshold() {
	ctx := context.Background()
	suite.add("Samosa", 2, 5)
	suite.add("Butter Chicken", 10, 3)
	suite.add("Aloo Gobi", 3, 3)
	inactive := suite.add("Paneer Tikka", 0, 2)
	inactive.Deactivate()
	suite.Require().NoError(suite.repository.Update(ctx, inactive))

	got, err := suite.repository.ListLowStock(ctx)

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal("Aloo Gobi", got[0].Name())
	suite.Equal("Samosa", got[1].Name())
}

func (suite *MealRepositoryIntegrationTestSuite) TestGet_Missing_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestMealRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(MealRepositoryIntegrationTestSuite))
}
