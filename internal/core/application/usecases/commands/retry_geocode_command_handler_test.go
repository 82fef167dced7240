package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newFailedGeocodeOrder(t *testing.T, address string) *order.Order {
	t.Helper()

	o, err := order.NewOrder(kernel.NewUUID(), "ORD-2001", address, false, time.Now().UTC())
	require.NoError(t, err)
	o.SetGeocodeFailure("geocode service returned status 503")
	return o
}

func TestRetryGeocodeCommandHandler_Handle(t *testing.T) {
	t.Run("resolves_failed_orders", func(t *testing.T) {
		first := newFailedGeocodeOrder(t, "10 Elm Street")
		second := newFailedGeocodeOrder(t, "12 Oak Avenue")
		point, err := kernel.NewGeoPoint(55.75, 37.62)
		require.NoError(t, err)

		orderRepo := &MockOrderRepository{}
		uow := &MockUoW{}
		factory := &MockOrderUoWFactory{}
		geocoder := &MockGeocoder{}

		factory.On("Create").Return(uow).Once()
		mock.InOrder(
			uow.On("Begin", mock.Anything).Return(nil).Once(),
			uow.On("OrderRepository").Return(orderRepo).Once(),
			orderRepo.On("GetWithFailedGeocode", mock.Anything, commands.DefaultGeocodeRetryBatch).
				Return([]*order.Order{first, second}, nil).Once(),
			geocoder.On("Geocode", mock.Anything, "10 Elm Street").Return(point, nil).Once(),
			orderRepo.On("Update", mock.Anything, first).Return(nil).Once(),
			geocoder.On("Geocode", mock.Anything, "12 Oak Avenue").
				Return(kernel.GeoPoint{}, errors.New("still unavailable")).Once(),
			uow.On("Commit", mock.Anything).Return(nil).Once(),
			uow.On("Rollback", mock.Anything).Return(nil).Once(),
		)

		handler := commands.NewRetryGeocodeCommandHandler(factory, geocoder)
		resolved, err := handler.Handle(context.Background(), commands.NewRetryGeocodeCommand(0))

		require.NoError(t, err)
		assert.Equal(t, 1, resolved)
		assert.Equal(t, order.GeocodeOK, first.Geocode().Status())
		assert.Equal(t, order.GeocodeFailed, second.Geocode().Status())
		mock.AssertExpectationsForObjects(t, factory, uow, orderRepo, geocoder)
	})

	t.Run("empty_sweep_commits_nothing_resolved", func(t *testing.T) {
		orderRepo := &MockOrderRepository{}
		uow := &MockUoW{}
		factory := &MockOrderUoWFactory{}
		geocoder := &MockGeocoder{}

		factory.On("Create").Return(uow).Once()
		uow.On("Begin", mock.Anything).Return(nil).Once()
		uow.On("OrderRepository").Return(orderRepo).Once()
		orderRepo.On("GetWithFailedGeocode", mock.Anything, 5).
			Return([]*order.Order{}, nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()
		uow.On("Rollback", mock.Anything).Return(nil).Once()

		handler := commands.NewRetryGeocodeCommandHandler(factory, geocoder)
		resolved, err := handler.Handle(context.Background(), commands.NewRetryGeocodeCommand(5))

		require.NoError(t, err)
		assert.Zero(t, resolved)
	})

	t.Run("not_constructed_command_is_rejected", func(t *testing.T) {
		handler := commands.NewRetryGeocodeCommandHandler(&MockOrderUoWFactory{}, &MockGeocoder{})

		_, err := handler.Handle(context.Background(), commands.RetryGeocodeCommand{})

		assert.ErrorIs(t, err, commands.ErrRetryGeocodeCommandIsNotConstructed)
	})
}
