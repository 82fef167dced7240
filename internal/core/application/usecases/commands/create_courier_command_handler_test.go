package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateCourierCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	cmd, err := commands.NewCreateCourierCommand(
		kernel.NewUUID(), "Dana Reyes", "+15550123", "bike")
	require.NoError(t, err)

	courierRepo := new(MockCourierRepository)
	uow := new(MockUoW)

	var registered *courier.Courier
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("CourierRepository").Return(courierRepo).Once(),
		courierRepo.On("Add", ctx, mock.AnythingOfType("*courier.Courier")).
			Run(func(args mock.Arguments) {
				registered = args.Get(1).(*courier.Courier)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockCourierUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewCreateCourierCommandHandler(factory)
	require.NoError(t, handler.Handle(ctx, cmd))

	require.NotNil(t, registered)
	require.Equal(t, cmd.CourierID(), registered.ID())
	require.Equal(t, courier.Available, registered.Status())
	require.Nil(t, registered.Location())
}

func TestCreateCourierCommandHandler_Handle_InvalidName(t *testing.T) {
	ctx := t.Context()

	// The aggregate rejects the empty name before any transaction starts.
	cmd, err := commands.NewCreateCourierCommand(kernel.NewUUID(), "", "+15550123", "bike")
	require.NoError(t, err)

	factory := new(MockCourierUoWFactory)
	handler := commands.NewCreateCourierCommandHandler(factory)

	require.ErrorIs(t, handler.Handle(ctx, cmd), courier.ErrNameIsRequired)
	factory.AssertNotCalled(t, "Create")
}
