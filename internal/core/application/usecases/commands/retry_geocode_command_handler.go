package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// RetryGeocodeCommandHandler re-runs geocoding for orders stuck with a failed
// geocode. Each resolved order is updated in place; orders that fail again
// keep their failed status and stay eligible for the next sweep.
type RetryGeocodeCommandHandler struct {
	uowFactory OrderUoWFactory
	geocoder   ports.Geocoder
}

// NewRetryGeocodeCommandHandler creates a handler for the geocode retry sweep.
func NewRetryGeocodeCommandHandler(
	uowFactory OrderUoWFactory,
	geocoder ports.Geocoder,
) RetryGeocodeCommandHandler {
	return RetryGeocodeCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
	}
}

// Handle processes one sweep. Returns how many orders were resolved.
func (h *RetryGeocodeCommandHandler) Handle(ctx context.Context, cmd RetryGeocodeCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	failed, err := orderRepo.GetWithFailedGeocode(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, aggregate := range failed {
		point, geocodeErr := h.geocoder.Geocode(ctx, aggregate.DeliveryAddress())
		if geocodeErr != nil {
			aggregate.SetGeocodeFailure(geocodeErr.Error())
			continue
		}

		if err = aggregate.SetGeocodeResult(point); err != nil {
			return resolved, err
		}

		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return resolved, err
		}
		resolved++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return resolved, nil
}
