package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWaitingCODOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-3001", "5 Cedar Way", true, time.Now().UTC())
	require.NoError(t, err)

	changed, err := o.TransitionTo(order.WaitingConfirmation, time.Now().UTC())
	require.NoError(t, err)
	require.True(t, changed)
	return o
}

func TestIssueOTPCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	testOrder := newWaitingCODOrder(t)
	cmd, err := commands.NewIssueOTPCommand(testOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	otpRepo := new(MockOTPRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	var issued *otp.Challenge
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("OTPRepository").Return(otpRepo).Once(),
		otpRepo.On("ExpireActiveByOrder", ctx, testOrder.ID(), mock.AnythingOfType("time.Time")).
			Return(nil).Once(),
		otpRepo.On("Add", ctx, mock.AnythingOfType("*otp.Challenge")).
			Run(func(args mock.Arguments) {
				issued = args.Get(1).(*otp.Challenge)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	notifier.On("Notify", ctx, mock.MatchedBy(func(n ports.Notification) bool {
		return n.Category == ports.NotificationOTPIssued
	})).Once()

	factory := new(MockOTPUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIssueOTPCommandHandler(factory, notifier, 10*time.Minute, false)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, issued)
	require.Equal(t, issued.ID().String(), result.ChallengeID)
	require.Equal(t, issued.ExpiresAt(), result.ExpiresAt)
	require.Empty(t, result.Code, "code must stay hidden outside dev mode")
	otpRepo.AssertExpectations(t)
}

func TestIssueOTPCommandHandler_Handle_DevModeSurfacesCode(t *testing.T) {
	ctx := t.Context()

	testOrder := newWaitingCODOrder(t)
	cmd, err := commands.NewIssueOTPCommand(testOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	otpRepo := new(MockOTPRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once()
	uow.On("OTPRepository").Return(otpRepo).Once()
	otpRepo.On("ExpireActiveByOrder", ctx, testOrder.ID(), mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	otpRepo.On("Add", ctx, mock.AnythingOfType("*otp.Challenge")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	notifier.On("Notify", ctx, mock.AnythingOfType("ports.Notification")).Once()

	factory := new(MockOTPUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIssueOTPCommandHandler(factory, notifier, time.Minute, true)
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, result.Code, otp.DefaultCodeLength)
}

func TestIssueOTPCommandHandler_Handle_NotApplicable(t *testing.T) {
	ctx := t.Context()

	// A prepaid order never waits for COD confirmation.
	testOrder := newOrderAt(t, order.Confirmed, nil)
	cmd, err := commands.NewIssueOTPCommand(testOrder.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	otpRepo := new(MockOTPRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOTPUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewIssueOTPCommandHandler(factory, new(MockNotifier), time.Minute, false)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrOTPNotApplicable)
	otpRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}
