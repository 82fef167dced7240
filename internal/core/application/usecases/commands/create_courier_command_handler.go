package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
)

// CreateCourierCommandHandler handles courier registration.
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewCreateCourierCommandHandler creates a handler for courier registration.
func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the registration command. Field validation happens in the
// aggregate constructor, so transport-level callers get the domain's errors.
func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	newCourier, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Phone(), cmd.VehicleType())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, newCourier); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
