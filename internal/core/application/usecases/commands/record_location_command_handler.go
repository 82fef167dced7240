package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/ports"
)

// RecordLocationCommandHandler persists courier position pings and relays
// them to the tracking broadcaster for every actively tracked order the
// courier is working. Pings are accepted whatever the courier's availability:
// a courier between assignments still reports positions.
type RecordLocationCommandHandler struct {
	uowFactory UoWFactory
	tracking   ports.TrackingPublisher
}

// NewRecordLocationCommandHandler creates a handler for courier position pings.
func NewRecordLocationCommandHandler(
	uowFactory UoWFactory, tracking ports.TrackingPublisher,
) RecordLocationCommandHandler {
	return RecordLocationCommandHandler{
		uowFactory: uowFactory,
		tracking:   tracking,
	}
}

// Handle processes the position ping.
func (h *RecordLocationCommandHandler) Handle(ctx context.Context, cmd RecordLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	reporter, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = reporter.RecordLocation(cmd.Location(), time.Now().UTC()); err != nil {
		return err
	}

	if err = courierRepo.Update(ctx, reporter); err != nil {
		return err
	}

	active, err := uow.OrderRepository().GetActiveByCourier(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, tracked := range active {
		h.tracking.PublishLocation(tracked.ID(), cmd.Location())
	}
	return nil
}
