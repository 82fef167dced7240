package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newOrderAt builds a prepaid order advanced to the given status through the
// real state machine. When courierID is non-nil the courier is assigned while
// the order is in processing, and statuses past ready get a departure photo.
func newOrderAt(t *testing.T, status order.Status, courierID *kernel.UUID) *order.Order {
	t.Helper()

	now := time.Now().UTC()
	o, err := order.NewOrder(kernel.NewUUID(), "ORD-1001", "10 Elm Street", false, now)
	require.NoError(t, err)

	path := map[order.Status][]order.Status{
		order.Pending:    {},
		order.Confirmed:  {order.Confirmed},
		order.Processing: {order.Confirmed, order.Processing},
		order.Ready:      {order.Confirmed, order.Processing, order.Ready},
		order.Delivering: {order.Confirmed, order.Processing, order.Ready, order.Delivering},
		order.Cancelled:  {order.Cancelled},
	}[status]

	for _, step := range path {
		if step == order.Delivering {
			require.NoError(t, o.AttachDeparturePhoto("photos/departure.jpg"))
		}
		changed, err := o.TransitionTo(step, now)
		require.NoError(t, err)
		require.True(t, changed)
		if step == order.Processing && courierID != nil {
			_, err = o.AssignCourier(*courierID, now)
			require.NoError(t, err)
		}
	}

	return o
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateWithStatusGuard(
	ctx context.Context, o *order.Order, expected order.Status,
) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetActiveByCourier(
	ctx context.Context, courierID kernel.UUID,
) ([]*order.Order, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetWithFailedGeocode(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) UpdateWithStatusGuard(
	ctx context.Context, c *courier.Courier, expectedStatus courier.Status,
) error {
	args := m.Called(ctx, c, expectedStatus)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockOTPRepository struct{ mock.Mock }

func (m *MockOTPRepository) Add(ctx context.Context, c *otp.Challenge) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockOTPRepository) Update(ctx context.Context, c *otp.Challenge) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockOTPRepository) GetActiveByOrder(
	ctx context.Context, orderID kernel.UUID, now time.Time,
) (*otp.Challenge, error) {
	args := m.Called(ctx, orderID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*otp.Challenge), args.Error(1)
}

func (m *MockOTPRepository) GetLatestByOrder(
	ctx context.Context, orderID kernel.UUID,
) (*otp.Challenge, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*otp.Challenge), args.Error(1)
}

func (m *MockOTPRepository) ExpireActiveByOrder(
	ctx context.Context, orderID kernel.UUID, now time.Time,
) error {
	args := m.Called(ctx, orderID, now)
	return args.Error(0)
}

func (m *MockOTPRepository) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Append(ctx context.Context, entry order.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) History(
	ctx context.Context, orderID kernel.UUID,
) ([]order.AuditEntry, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.AuditEntry), args.Error(1)
}

// MockUoW implements every unit of work flavor used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) OTPRepository() ports.OTPRepository {
	args := m.Called()
	return args.Get(0).(ports.OTPRepository)
}

func (m *MockUoW) AuditRepository() ports.AuditRepository {
	args := m.Called()
	return args.Get(0).(ports.AuditRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOTPUoWFactory struct{ mock.Mock }

func (m *MockOTPUoWFactory) Create() commands.OTPUoW {
	args := m.Called()
	return args.Get(0).(commands.OTPUoW)
}

type MockCourierUoWFactory struct{ mock.Mock }

func (m *MockCourierUoWFactory) Create() commands.CourierUoW {
	args := m.Called()
	return args.Get(0).(commands.CourierUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) {
	m.Called(ctx, n)
}

type MockTrackingPublisher struct{ mock.Mock }

func (m *MockTrackingPublisher) PublishStatus(orderID kernel.UUID, status order.Status) {
	m.Called(orderID, status)
}

func (m *MockTrackingPublisher) PublishLocation(orderID kernel.UUID, location kernel.GeoPoint) {
	m.Called(orderID, location)
}

func (m *MockTrackingPublisher) Terminate(orderID kernel.UUID, status order.Status) {
	m.Called(orderID, status)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(
	ctx context.Context, o *order.Order, from order.Status, actor order.Actor,
) {
	m.Called(ctx, o, from, actor)
}

type MockTransitionRecorder struct{ mock.Mock }

func (m *MockTransitionRecorder) TransitionAccepted(target string) {
	m.Called(target)
}

func (m *MockTransitionRecorder) TransitionRejected(reason string) {
	m.Called(reason)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockMediaStore struct{ mock.Mock }

func (m *MockMediaStore) Store(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Remove(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}
