package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand represents a request to move an order to a new status.
// Every status change in the system, whatever its trigger, goes through this
// command so the transition table, the gates, and the audit log stay the single
// source of truth.
//
// Example:
//
//	cmd, err := NewApplyTransitionCommand(orderID, order.Processing, order.ActorAdmin, "", nil)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition rejected: %w", err)
//	}
type ApplyTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	target         order.Status
	actor          order.Actor
	notes          string
	expectedStatus *order.Status

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand creates a command to transition an order.
// expectedStatus is optional: when set, the handler rejects the request with
// order.ErrConflict if the order has moved since the caller last read it.
func NewApplyTransitionCommand(
	orderID kernel.UUID,
	target order.Status,
	actor order.Actor,
	notes string,
	expectedStatus *order.Status,
) (ApplyTransitionCommand, error) {
	cmd := ApplyTransitionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
		cmd.setExpectedStatus(expectedStatus),
	); err != nil {
		return ApplyTransitionCommand{}, err
	}

	cmd.notes = notes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c ApplyTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested destination status.
func (c ApplyTransitionCommand) Target() order.Status {
	return c.target
}

// Actor returns who requested the transition.
func (c ApplyTransitionCommand) Actor() order.Actor {
	return c.actor
}

// Notes returns the free-form context recorded in the audit entry.
func (c ApplyTransitionCommand) Notes() string {
	return c.notes
}

// ExpectedStatus returns the optimistic concurrency precondition, or nil.
func (c ApplyTransitionCommand) ExpectedStatus() *order.Status {
	return c.expectedStatus
}

func (c *ApplyTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ApplyTransitionCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *ApplyTransitionCommand) setActor(actor order.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}

func (c *ApplyTransitionCommand) setExpectedStatus(expected *order.Status) error {
	if expected == nil {
		return nil
	}
	if err := expected.Validate(); err != nil {
		return err
	}

	c.expectedStatus = expected
	return nil
}
