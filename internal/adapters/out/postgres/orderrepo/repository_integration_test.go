package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// OrderRepository using PostgreSQL containers to verify persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

// newOrder builds a fresh COD order with a resolved geocode.
func (suite *OrderRepositoryIntegrationTestSuite) newOrder(number string) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), number, "10 Elm Street", true, time.Now().UTC())
	suite.Require().NoError(err)

	point, err := kernel.NewGeoPoint(55.75, 37.62)
	suite.Require().NoError(err)
	suite.Require().NoError(o.SetGeocodeResult(point))

	return o
}

// advance drives the order through the given statuses via the state machine.
func (suite *OrderRepositoryIntegrationTestSuite) advance(o *order.Order, courierID kernel.UUID, path ...order.Status) {
	now := time.Now().UTC()
	for _, step := range path {
		if step == order.Delivering {
			suite.Require().NoError(o.AttachDeparturePhoto("photos/departure.jpg"))
		}
		changed, err := o.TransitionTo(step, now)
		suite.Require().NoError(err)
		suite.Require().True(changed)
		if step == order.Processing {
			_, err = o.AssignCourier(courierID, now)
			suite.Require().NoError(err)
		}
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()

	original := suite.newOrder("ORD-3001")
	original.VerifyCOD(false)
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()

	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal("ORD-3001", retrieved.Number())
	suite.Equal(order.Pending, retrieved.Status())
	suite.True(retrieved.IsCOD())
	suite.True(retrieved.CODVerified())
	suite.False(retrieved.CODAutoApproved())
	suite.Equal(order.GeocodeOK, retrieved.Geocode().Status())
	suite.Require().NotNil(retrieved.Geocode().Point())
	suite.InDelta(55.75, retrieved.Geocode().Point().Lat(), 0.0001)
	suite.Nil(retrieved.Courier())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByNumber() {
	ctx := context.Background()

	original := suite.newOrder("ORD-3002")
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.GetByNumber(ctx, "ORD-3002")
	suite.Require().NoError(err)
	suite.Equal(original.ID(), retrieved.ID())

	_, err = suite.repository.GetByNumber(ctx, "ORD-MISSING")
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateWithStatusGuard_Succeeds() {
	ctx := context.Background()

	o := suite.newOrder("ORD-3003")
	o.VerifyCOD(true)
	suite.tracker.On("TrackAggregate", o.ID(), o).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, o))

	previous := o.Status()
	changed, err := o.TransitionTo(order.Confirmed, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().True(changed)

	suite.Require().NoError(suite.repository.UpdateWithStatusGuard(ctx, o, previous))

	retrieved, err := suite.repository.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Confirmed, retrieved.Status())
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateWithStatusGuard_ConflictWhenRowMoved() {
	ctx := context.Background()

	o := suite.newOrder("ORD-3004")
	o.VerifyCOD(true)
	suite.tracker.On("TrackAggregate", o.ID(), o)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	// Another writer moves the row forward first.
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderDTO{}).
		Where("id = ?", o.ID().Bytes()).
		Update("status", order.Confirmed.String()).Error)

	previous := o.Status()
	changed, err := o.TransitionTo(order.Confirmed, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().True(changed)

	err = suite.repository.UpdateWithStatusGuard(ctx, o, previous)
	suite.Require().ErrorIs(err, order.ErrConflict)

	// Only the Add tracked the aggregate; the rejected write must not.
	suite.tracker.AssertNumberOfCalls(suite.T(), "TrackAggregate", 1)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetActiveByCourier() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	active := suite.newOrder("ORD-3005")
	suite.advance(active, courierID, order.Confirmed, order.Processing)

	done := suite.newOrder("ORD-3006")
	suite.advance(done, courierID,
		order.Confirmed, order.Processing, order.Ready, order.Delivering, order.Completed)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, active))
	suite.Require().NoError(suite.repository.Add(ctx, done))

	orders, err := suite.repository.GetActiveByCourier(ctx, courierID)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(active.ID(), orders[0].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetWithFailedGeocode() {
	ctx := context.Background()

	failed, err := order.NewOrder(kernel.NewUUID(), "ORD-3007", "1 Fog Lane", false, time.Now().UTC())
	suite.Require().NoError(err)
	failed.SetGeocodeFailure("geocode service returned status 503")

	resolved := suite.newOrder("ORD-3008")

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Twice()
	suite.Require().NoError(suite.repository.Add(ctx, failed))
	suite.Require().NoError(suite.repository.Add(ctx, resolved))

	orders, err := suite.repository.GetWithFailedGeocode(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(orders, 1)
	suite.Equal(failed.ID(), orders[0].ID())
	suite.Equal("geocode service returned status 503", orders[0].Geocode().Failure())
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
