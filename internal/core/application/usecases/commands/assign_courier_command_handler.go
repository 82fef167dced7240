package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// AssignCourierCommandHandler binds a courier to an order. The courier must be
// available and the order must be in a status that admits assignment.
// Assigning over an existing assignment is a reassignment: the previous
// courier is released back to available in the same transaction. Both the
// customer and the courier are notified after commit.
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
}

// NewAssignCourierCommandHandler creates a handler for manual courier assignment.
func NewAssignCourierCommandHandler(uowFactory UoWFactory, notifier ports.Notifier) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
	}
}

// Handle processes the assignment command.
// Returns courier.ErrNotAvailable when the courier cannot take the order and
// order.ErrCourierNotAssignable when the order's status forbids assignment.
// The audit entry keeps the order status on both endpoints and names the
// courier in its notes.
func (h *AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
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

	orderRepo := uow.OrderRepository()
	courierRepo := uow.CourierRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	assignee, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	previous, err := aggregate.AssignCourier(cmd.CourierID(), now)
	if err != nil {
		return err
	}

	if err = assignee.MarkBusy(); err != nil {
		return err
	}

	if previous != nil {
		replaced, rerr := courierRepo.Get(ctx, *previous)
		if rerr != nil {
			return rerr
		}
		if rerr = replaced.Release(); rerr != nil {
			return rerr
		}
		if rerr = courierRepo.Update(ctx, replaced); rerr != nil {
			return rerr
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	// Guard on the stored status: a concurrent assignment that won the race
	// already flipped the row to busy, and this one must lose.
	if err = courierRepo.UpdateWithStatusGuard(ctx, assignee, courier.Available); err != nil {
		return err
	}

	entry, err := order.NewAuditEntry(
		aggregate.ID(),
		aggregate.Status(),
		aggregate.Status(),
		order.ActorAdmin,
		fmt.Sprintf("courier %s assigned", assignee.ID()),
		now,
	)
	if err != nil {
		return err
	}

	if err = uow.AuditRepository().Append(ctx, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.notifier.Notify(ctx, ports.Notification{
		Recipient: order.ActorCustomer,
		Category:  ports.NotificationCourierAssigned,
		Title:     fmt.Sprintf("Courier assigned to order %s", aggregate.Number()),
		Body:      fmt.Sprintf("%s will deliver your order.", assignee.Name()),
		OrderID:   aggregate.ID(),
	})
	h.notifier.Notify(ctx, ports.Notification{
		RecipientID: assignee.ID(),
		Recipient:   order.ActorCourier,
		Category:    ports.NotificationCourierAssigned,
		Title:       fmt.Sprintf("New delivery %s", aggregate.Number()),
		Body:        fmt.Sprintf("Deliver to %s.", aggregate.DeliveryAddress()),
		OrderID:     aggregate.ID(),
	})
	return nil
}
