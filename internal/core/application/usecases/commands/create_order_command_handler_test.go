package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type createOrderFixture struct {
	orderRepo *MockOrderRepository
	otpRepo   *MockOTPRepository
	auditRepo *MockAuditRepository
	uow       *MockUoW
	factory   *MockOTPUoWFactory
	geocoder  *MockGeocoder
	notifier  *MockNotifier
	events    *MockEventPublisher
	recorder  *MockTransitionRecorder
}

func newCreateOrderFixture() *createOrderFixture {
	return &createOrderFixture{
		orderRepo: new(MockOrderRepository),
		otpRepo:   new(MockOTPRepository),
		auditRepo: new(MockAuditRepository),
		uow:       new(MockUoW),
		factory:   new(MockOTPUoWFactory),
		geocoder:  new(MockGeocoder),
		notifier:  new(MockNotifier),
		events:    new(MockEventPublisher),
		recorder:  new(MockTransitionRecorder),
	}
}

func (f *createOrderFixture) handler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		f.factory,
		services.NewTrustEvaluator(services.DefaultTrustThreshold),
		f.geocoder,
		f.notifier,
		f.events,
		f.recorder,
		10*time.Minute,
	)
}

func TestCreateOrderCommandHandler_Handle_Prepaid(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, "ORD-2041", "12 Baker Street", false, 0, false, 0)
	require.NoError(t, err)

	point, _ := kernel.NewGeoPoint(51.52, -0.15)
	f.geocoder.On("Geocode", ctx, "12 Baker Street").Return(point, nil).Once()

	var created *order.Order
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.orderRepo).Once(),
		f.orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*order.Order)
			}).Return(nil).Once(),
		f.uow.On("AuditRepository").Return(f.auditRepo).Once(),
		f.auditRepo.On("Append", ctx, mock.AnythingOfType("order.AuditEntry")).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
	f.factory.On("Create").Return(f.uow).Once()
	f.recorder.On("TransitionAccepted", "confirmed").Once()
	f.events.On("PublishStatusChanged", ctx, mock.AnythingOfType("*order.Order"),
		order.Pending, order.ActorSystem).Once()
	f.notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Category == ports.NotificationStatusChanged
	})).Once()

	handler := f.handler()
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, created)
	require.Equal(t, order.Confirmed, created.Status())
	require.Equal(t, order.GeocodeOK, created.Geocode().Status())
	f.otpRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_CODAutoApproved(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()

	// A verified customer with a long history clears the trust threshold.
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "ORD-2042", "3 Oak Lane", true, 12, true, 0)
	require.NoError(t, err)

	point, _ := kernel.NewGeoPoint(40.7, -74.0)
	f.geocoder.On("Geocode", ctx, "3 Oak Lane").Return(point, nil).Once()

	var created *order.Order
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.orderRepo).Once()
	f.orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).Return(nil).Once()
	f.uow.On("AuditRepository").Return(f.auditRepo).Once()
	f.auditRepo.On("Append", ctx, mock.AnythingOfType("order.AuditEntry")).Return(nil).Twice()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	f.recorder.On("TransitionAccepted", "waiting_confirmation").Once()
	f.recorder.On("TransitionAccepted", "confirmed").Once()
	f.events.On("PublishStatusChanged", ctx, mock.AnythingOfType("*order.Order"),
		mock.AnythingOfType("order.Status"), order.ActorSystem).Twice()
	f.notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Category == ports.NotificationStatusChanged
	})).Once()

	handler := f.handler()
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, created)
	require.Equal(t, order.Confirmed, created.Status())
	require.True(t, created.CODVerified())
	require.True(t, created.CODAutoApproved())
	f.otpRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestCreateOrderCommandHandler_Handle_CODNewCustomerGetsCode(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "ORD-2043", "9 Pine Road", true, 0, false, 0)
	require.NoError(t, err)

	point, _ := kernel.NewGeoPoint(48.85, 2.35)
	f.geocoder.On("Geocode", ctx, "9 Pine Road").Return(point, nil).Once()

	var created *order.Order
	var challenge *otp.Challenge
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.orderRepo).Once()
	f.orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).Return(nil).Once()
	f.uow.On("OTPRepository").Return(f.otpRepo).Once()
	f.otpRepo.On("Add", ctx, mock.AnythingOfType("*otp.Challenge")).
		Run(func(args mock.Arguments) {
			challenge = args.Get(1).(*otp.Challenge)
		}).Return(nil).Once()
	f.uow.On("AuditRepository").Return(f.auditRepo).Once()
	f.auditRepo.On("Append", ctx, mock.AnythingOfType("order.AuditEntry")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()

	f.recorder.On("TransitionAccepted", "waiting_confirmation").Once()
	f.events.On("PublishStatusChanged", ctx, mock.AnythingOfType("*order.Order"),
		order.Pending, order.ActorSystem).Once()
	f.notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Category == ports.NotificationOTPIssued
	})).Once()

	handler := f.handler()
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, created)
	require.Equal(t, order.WaitingConfirmation, created.Status())
	require.False(t, created.CODVerified())
	require.NotNil(t, challenge)
	require.Equal(t, created.ID(), challenge.OrderID())
	require.Len(t, challenge.Code(), otp.DefaultCodeLength)
}

func TestCreateOrderCommandHandler_Handle_GeocodeFailureIsRecorded(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), "ORD-2044", "nowhere in particular", false, 0, false, 0)
	require.NoError(t, err)

	f.geocoder.On("Geocode", ctx, "nowhere in particular").
		Return(kernel.GeoPoint{}, errors.New("resolver timeout")).Once()

	var created *order.Order
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.orderRepo).Once()
	f.orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*order.Order)
		}).Return(nil).Once()
	f.uow.On("AuditRepository").Return(f.auditRepo).Once()
	f.auditRepo.On("Append", ctx, mock.AnythingOfType("order.AuditEntry")).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.recorder.On("TransitionAccepted", "confirmed").Once()
	f.events.On("PublishStatusChanged", ctx, mock.AnythingOfType("*order.Order"),
		order.Pending, order.ActorSystem).Once()
	f.notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Once()

	handler := f.handler()
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, created)
	require.Equal(t, order.GeocodeFailed, created.Geocode().Status())
	require.Equal(t, "resolver timeout", created.Geocode().Failure())
	require.Equal(t, order.Confirmed, created.Status())
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	f := newCreateOrderFixture()

	handler := f.handler()
	err := handler.Handle(ctx, commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	f.factory.AssertNotCalled(t, "Create")
	f.geocoder.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}
