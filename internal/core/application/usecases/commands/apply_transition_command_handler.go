package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// ApplyTransitionCommandHandler is the single write path of the order state
// machine. It loads the order, applies the domain transition, persists the
// result under an optimistic status guard, and appends exactly one audit entry
// per accepted change. Subscribers, notification sinks, and the message broker
// are informed only after the transaction commits.
type ApplyTransitionCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	tracking   ports.TrackingPublisher
	events     ports.OrderEventPublisher
	recorder   TransitionRecorder
}

// NewApplyTransitionCommandHandler creates the state machine write handler.
func NewApplyTransitionCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	tracking ports.TrackingPublisher,
	events ports.OrderEventPublisher,
	recorder TransitionRecorder,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		tracking:   tracking,
		events:     events,
		recorder:   recorder,
	}
}

// Handle processes the transition command.
// Returns order.ErrConflict when the caller's expected status no longer holds
// or another writer won the race, the domain's transition/gate errors when the
// edge is rejected, and nil without side effects for the idempotent
// cancel-of-cancelled case.
func (h *ApplyTransitionCommandHandler) Handle(ctx context.Context, cmd ApplyTransitionCommand) error {
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
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if expected := cmd.ExpectedStatus(); expected != nil && aggregate.Status() != *expected {
		h.recorder.TransitionRejected("conflict")
		return order.ErrConflict
	}

	previous := aggregate.Status()
	previousCourier := aggregate.Courier()
	now := time.Now().UTC()

	changed, err := aggregate.TransitionTo(cmd.Target(), now)
	if err != nil {
		h.recorder.TransitionRejected("invalid")
		return err
	}
	if !changed {
		// Cancelling a cancelled order: nothing to persist, audit, or announce.
		return nil
	}

	if err = orderRepo.UpdateWithStatusGuard(ctx, aggregate, previous); err != nil {
		if errors.Is(err, order.ErrConflict) {
			h.recorder.TransitionRejected("conflict")
		}
		return err
	}

	if cmd.Target().IsTerminal() && previousCourier != nil {
		if err = h.releaseCourier(ctx, uow, previousCourier); err != nil {
			return err
		}
	}

	entry, err := order.NewAuditEntry(
		aggregate.ID(), previous, aggregate.Status(), cmd.Actor(), cmd.Notes(), now)
	if err != nil {
		return err
	}

	if err = uow.AuditRepository().Append(ctx, entry); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.TransitionAccepted(aggregate.Status().String())
	announceStatusChange(ctx, h.notifier, h.tracking, h.events, aggregate, previous, cmd.Actor())
	return nil
}

func (h *ApplyTransitionCommandHandler) releaseCourier(
	ctx context.Context,
	uow UoW,
	courierID *kernel.UUID,
) error {
	courierRepo := uow.CourierRepository()
	assignee, err := courierRepo.Get(ctx, *courierID)
	if err != nil {
		return err
	}

	if err = assignee.Release(); err != nil {
		return err
	}

	return courierRepo.Update(ctx, assignee)
}
