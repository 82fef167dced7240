package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/otp"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// CreateOrderCommandHandler accepts orders into fulfillment. Prepaid orders
// are confirmed immediately; cash-on-delivery orders either auto-approve via
// the trust evaluator or receive a one-time confirmation code. The address is
// geocoded best effort: a resolver failure is recorded on the order and
// retried later, never blocking intake.
type CreateOrderCommandHandler struct {
	uowFactory OTPUoWFactory
	trust      services.TrustEvaluator
	geocoder   ports.Geocoder
	notifier   ports.Notifier
	events     ports.OrderEventPublisher
	recorder   TransitionRecorder
	otpTTL     time.Duration
}

// NewCreateOrderCommandHandler creates a handler for order intake.
// otpTTL bounds the lifetime of confirmation codes issued to COD customers.
func NewCreateOrderCommandHandler(
	uowFactory OTPUoWFactory,
	trust services.TrustEvaluator,
	geocoder ports.Geocoder,
	notifier ports.Notifier,
	events ports.OrderEventPublisher,
	recorder TransitionRecorder,
	otpTTL time.Duration,
) CreateOrderCommandHandler {
	if otpTTL <= 0 {
		otpTTL = otp.DefaultTTL
	}

	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		trust:      trust,
		geocoder:   geocoder,
		notifier:   notifier,
		events:     events,
		recorder:   recorder,
		otpTTL:     otpTTL,
	}
}

// Handle processes the order intake command.
// Every accepted status hop during intake produces its own audit entry, all
// persisted in one transaction with the order and any issued challenge.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.Number(), cmd.DeliveryAddress(), cmd.IsCOD(), now)
	if err != nil {
		return err
	}

	// Resolve coordinates before opening the transaction; the external call
	// must not hold a database connection.
	if point, gerr := h.geocoder.Geocode(ctx, cmd.DeliveryAddress()); gerr != nil {
		aggregate.SetGeocodeFailure(gerr.Error())
	} else if err = aggregate.SetGeocodeResult(point); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var hops []order.AuditEntry
	var challenge *otp.Challenge

	if cmd.IsCOD() {
		hops, challenge, err = h.intakeCOD(cmd, aggregate, now)
	} else {
		hops, err = h.intakePrepaid(aggregate, now)
	}
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if challenge != nil {
		if err = uow.OTPRepository().Add(ctx, challenge); err != nil {
			return err
		}
	}

	auditRepo := uow.AuditRepository()
	for _, entry := range hops {
		if err = auditRepo.Append(ctx, entry); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.announce(ctx, aggregate, hops, challenge)
	return nil
}

// intakePrepaid confirms the order immediately.
func (h *CreateOrderCommandHandler) intakePrepaid(
	aggregate *order.Order, now time.Time,
) ([]order.AuditEntry, error) {
	entry, err := h.transition(aggregate, order.Confirmed, "prepaid order confirmed", now)
	if err != nil {
		return nil, err
	}
	return []order.AuditEntry{entry}, nil
}

// intakeCOD routes the order through the verification gate: the trust
// evaluator either approves on the spot or a one-time code is issued.
func (h *CreateOrderCommandHandler) intakeCOD(
	cmd CreateOrderCommand, aggregate *order.Order, now time.Time,
) ([]order.AuditEntry, *otp.Challenge, error) {
	entry, err := h.transition(aggregate, order.WaitingConfirmation, "cash on delivery verification required", now)
	if err != nil {
		return nil, nil, err
	}
	hops := []order.AuditEntry{entry}

	decision, err := h.trust.Evaluate(
		cmd.SuccessfulOrderCount(), cmd.IsVerifiedUser(), cmd.PriorTrustScore())
	if err != nil {
		return nil, nil, err
	}

	if decision.AutoApprove {
		aggregate.VerifyCOD(true)
		entry, err = h.transition(aggregate, order.Confirmed,
			fmt.Sprintf("auto-approved, trust score %.0f", decision.Score), now)
		if err != nil {
			return nil, nil, err
		}
		return append(hops, entry), nil, nil
	}

	challenge, err := otp.NewChallenge(aggregate.ID(), otp.DefaultCodeLength, h.otpTTL, now)
	if err != nil {
		return nil, nil, err
	}
	return hops, challenge, nil
}

func (h *CreateOrderCommandHandler) transition(
	aggregate *order.Order, target order.Status, notes string, now time.Time,
) (order.AuditEntry, error) {
	previous := aggregate.Status()
	if _, err := aggregate.TransitionTo(target, now); err != nil {
		h.recorder.TransitionRejected("invalid")
		return order.AuditEntry{}, err
	}

	return order.NewAuditEntry(aggregate.ID(), previous, target, order.ActorSystem, notes, now)
}

func (h *CreateOrderCommandHandler) announce(
	ctx context.Context,
	aggregate *order.Order,
	hops []order.AuditEntry,
	challenge *otp.Challenge,
) {
	for _, entry := range hops {
		h.recorder.TransitionAccepted(entry.ToStatus().String())
		h.events.PublishStatusChanged(ctx, aggregate, entry.FromStatus(), order.ActorSystem)
	}

	if challenge != nil {
		h.notifier.Notify(ctx, ports.Notification{
			Recipient: order.ActorCustomer,
			Category:  ports.NotificationOTPIssued,
			Title:     fmt.Sprintf("Confirm order %s", aggregate.Number()),
			Body:      fmt.Sprintf("Your confirmation code is %s.", challenge.Code()),
			OrderID:   aggregate.ID(),
		})
		return
	}

	h.notifier.Notify(ctx, ports.Notification{
		Recipient: order.ActorCustomer,
		Category:  ports.NotificationStatusChanged,
		Title:     fmt.Sprintf("Order %s is %s", aggregate.Number(), aggregate.Status()),
		Body:      fmt.Sprintf("Your order %s was accepted.", aggregate.Number()),
		OrderID:   aggregate.ID(),
	})
}
