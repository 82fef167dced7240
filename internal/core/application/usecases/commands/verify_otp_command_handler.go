package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/core/ports"
)

// VerifyOTPCommandHandler checks a submitted confirmation code and, on
// success, drives the order through waiting_confirmation -> confirmed. A
// mismatched code increments the challenge's attempt counter without touching
// the order; re-verifying an already confirmed challenge reports
// otp.ErrAlreadyVerified and changes nothing.
type VerifyOTPCommandHandler struct {
	uowFactory OTPUoWFactory
	notifier   ports.Notifier
	tracking   ports.TrackingPublisher
	events     ports.OrderEventPublisher
	recorder   TransitionRecorder
}

// NewVerifyOTPCommandHandler creates a handler for code verification.
func NewVerifyOTPCommandHandler(
	uowFactory OTPUoWFactory,
	notifier ports.Notifier,
	tracking ports.TrackingPublisher,
	events ports.OrderEventPublisher,
	recorder TransitionRecorder,
) VerifyOTPCommandHandler {
	return VerifyOTPCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		tracking:   tracking,
		events:     events,
		recorder:   recorder,
	}
}

// Handle processes the verification command.
// Domain errors pass through unchanged: otp.ErrExpired, otp.ErrMismatch
// (with the failed attempt persisted), otp.ErrAlreadyVerified, and
// errs.ErrObjectNotFound when no code was ever issued.
func (h *VerifyOTPCommandHandler) Handle(ctx context.Context, cmd VerifyOTPCommand) error {
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

	otpRepo := uow.OTPRepository()
	challenge, err := otpRepo.GetLatestByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	verifyErr := challenge.Verify(cmd.Code(), now)
	if verifyErr != nil {
		if errors.Is(verifyErr, otp.ErrMismatch) {
			// The failed attempt must survive the rejection.
			if err = otpRepo.Update(ctx, challenge); err != nil {
				return err
			}
			if err = uow.Commit(ctx); err != nil {
				return err
			}
		}
		return verifyErr
	}

	if err = otpRepo.Update(ctx, challenge); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previous := aggregate.Status()
	aggregate.VerifyCOD(false)

	if _, err = aggregate.TransitionTo(order.Confirmed, now); err != nil {
		h.recorder.TransitionRejected("invalid")
		return err
	}

	if err = orderRepo.UpdateWithStatusGuard(ctx, aggregate, previous); err != nil {
		if errors.Is(err, order.ErrConflict) {
			h.recorder.TransitionRejected("conflict")
		}
		return err
	}

	entry, err := order.NewAuditEntry(
		aggregate.ID(), previous, aggregate.Status(), order.ActorCustomer,
		"cash on delivery confirmed by one-time code", now)
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
	h.tracking.PublishStatus(aggregate.ID(), aggregate.Status())
	h.events.PublishStatusChanged(ctx, aggregate, previous, order.ActorCustomer)
	h.notifier.Notify(ctx, ports.Notification{
		Recipient: order.ActorCustomer,
		Category:  ports.NotificationStatusChanged,
		Title:     fmt.Sprintf("Order %s confirmed", aggregate.Number()),
		Body:      "Your order is confirmed and moving to preparation.",
		OrderID:   aggregate.ID(),
	})
	return nil
}
