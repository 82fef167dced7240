package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/auditrepo"
	"fulfillment/internal/adapters/out/postgres/courierrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/otprepo"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies transactional behavior of the
// GORM-based Unit of Work against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&otprepo.ChallengeDTO{},
		&auditrepo.AuditEntryDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, couriers, otp_challenges, audit_entries").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newCODOrder(number string) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(), number, "10 Elm Street", true, time.Now().UTC())
	suite.Require().NoError(err)
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) countRows(table string) int64 {
	var count int64
	suite.Require().NoError(suite.db.Table(table).Count(&count).Error)
	return count
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsAcrossRepositories() {
	ctx := context.Background()
	now := time.Now().UTC()

	o := suite.newCODOrder("ORD-4001")
	changed, err := o.TransitionTo(order.WaitingConfirmation, now)
	suite.Require().NoError(err)
	suite.Require().True(changed)

	challenge, err := otp.NewChallenge(o.ID(), otp.DefaultCodeLength, otp.DefaultTTL, now)
	suite.Require().NoError(err)

	entry, err := order.NewAuditEntry(
		o.ID(), order.Pending, order.WaitingConfirmation, order.ActorSystem,
		"cash on delivery verification required", now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.OTPRepository().Add(ctx, challenge))
	suite.Require().NoError(uow.AuditRepository().Append(ctx, entry))
	suite.Require().NoError(uow.Commit(ctx))

	suite.Equal(int64(1), suite.countRows("orders"))
	suite.Equal(int64(1), suite.countRows("otp_challenges"))
	suite.Equal(int64(1), suite.countRows("audit_entries"))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsAllWrites() {
	ctx := context.Background()

	o := suite.newCODOrder("ORD-4002")
	c, err := courier.NewCourier(kernel.NewUUID(), "Kira", "+15550100", "bike")
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, c))
	suite.Require().NoError(uow.Rollback(ctx))

	suite.Equal(int64(0), suite.countRows("orders"))
	suite.Equal(int64(0), suite.countRows("couriers"))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWithoutBegin_Fails() {
	uow := suite.factory.Create()
	suite.Require().Error(uow.Commit(context.Background()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAuditHistory_OrderedOldestFirst() {
	ctx := context.Background()
	orderID := kernel.NewUUID()
	base := time.Now().UTC().Truncate(time.Millisecond)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	hops := []struct {
		from, to order.Status
		at       time.Time
	}{
		{order.Pending, order.Confirmed, base},
		{order.Confirmed, order.Processing, base.Add(time.Minute)},
		{order.Processing, order.Ready, base.Add(2 * time.Minute)},
	}
	for _, hop := range hops {
		entry, err := order.NewAuditEntry(orderID, hop.from, hop.to, order.ActorAdmin, "", hop.at)
		suite.Require().NoError(err)
		suite.Require().NoError(uow.AuditRepository().Append(ctx, entry))
	}
	suite.Require().NoError(uow.Commit(ctx))

	history, err := auditrepo.NewGormAuditRepository(suite.db).History(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(history, 3)
	suite.Equal(order.Confirmed, history[0].ToStatus())
	suite.Equal(order.Processing, history[1].ToStatus())
	suite.Equal(order.Ready, history[2].ToStatus())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCourierStatusGuard_RejectsMovedRow() {
	ctx := context.Background()

	c, err := courier.NewCourier(kernel.NewUUID(), "Kira", "+15550100", "bike")
	suite.Require().NoError(err)

	repo := courierrepo.NewGormCourierRepository(suite.db, noopTracker{})
	suite.Require().NoError(repo.Add(ctx, c))

	// Another writer booked the courier between our read and our write.
	err = suite.db.Exec("UPDATE couriers SET status = ? WHERE id = ?",
		courier.Busy.String(), c.ID().Bytes()).Error
	suite.Require().NoError(err)

	suite.Require().NoError(c.MarkBusy())
	err = repo.UpdateWithStatusGuard(ctx, c, courier.Available)
	suite.Require().ErrorIs(err, courier.ErrNotAvailable)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestOTPLifecycle() {
	ctx := context.Background()
	now := time.Now().UTC()
	orderID := kernel.NewUUID()

	first, err := otp.NewChallenge(orderID, otp.DefaultCodeLength, otp.DefaultTTL, now.Add(-time.Hour))
	suite.Require().NoError(err)
	second, err := otp.NewChallenge(orderID, otp.DefaultCodeLength, otp.DefaultTTL, now)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	otpRepo := uow.OTPRepository()
	suite.Require().NoError(otpRepo.Add(ctx, first))

	// Issuing a replacement expires the active challenge first.
	suite.Require().NoError(otpRepo.ExpireActiveByOrder(ctx, orderID, now))
	suite.Require().NoError(otpRepo.Add(ctx, second))
	suite.Require().NoError(uow.Commit(ctx))

	repo := otprepo.NewGormOTPRepository(suite.db, noopTracker{})

	active, err := repo.GetActiveByOrder(ctx, orderID, now)
	suite.Require().NoError(err)
	suite.Equal(second.ID(), active.ID())

	latest, err := repo.GetLatestByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Equal(second.ID(), latest.ID())

	// The sweep removes the superseded challenge once past retention.
	removed, err := repo.PurgeExpired(ctx, now.Add(time.Second))
	suite.Require().NoError(err)
	suite.Equal(int64(1), removed)
}

type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
