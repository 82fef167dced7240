package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignCourierCommandIsNotConstructed = errors.New(
	"AssignCourierCommand must be created via NewAssignCourierCommand constructor",
)

// AssignCourierCommand represents a dispatcher manually assigning a courier
// to an order that is being prepared.
type AssignCourierCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignCourierCommand creates a command to assign the courier to the order.
func NewAssignCourierCommand(orderID, courierID kernel.UUID) (AssignCourierCommand, error) {
	cmd := AssignCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		courierID.Validate(),
	); err != nil {
		return AssignCourierCommand{}, err
	}

	cmd.orderID = orderID
	cmd.courierID = courierID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignCourierCommand) Validate() error {
	return c.guard.Validate(ErrAssignCourierCommandIsNotConstructed)
}

// OrderID returns the order receiving the assignment.
func (c AssignCourierCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the courier being assigned.
func (c AssignCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}
