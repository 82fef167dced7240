package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrNumberIsRequired          = errors.New("order number is required")
	ErrDeliveryAddressIsRequired = errors.New("delivery address is required")
)

// CreateOrderCommand represents a checkout handing an order over to
// fulfillment. Besides the order identity it carries the customer history
// signal the trust evaluator scores cash-on-delivery orders with.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, "ORD-2041", "12 Baker Street", true, 12, true, 70)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to accept order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID              kernel.UUID
	number               string
	deliveryAddress      string
	isCOD                bool
	successfulOrderCount int
	isVerifiedUser       bool
	priorTrustScore      float64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to accept a new order into
// fulfillment. The history fields are only consulted for COD orders but are
// validated unconditionally.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	number string,
	deliveryAddress string,
	isCOD bool,
	successfulOrderCount int,
	isVerifiedUser bool,
	priorTrustScore float64,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setNumber(number),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setSuccessfulOrderCount(successfulOrderCount),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.isCOD = isCOD
	cmd.isVerifiedUser = isVerifiedUser
	cmd.priorTrustScore = priorTrustScore
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Number returns the human-facing order number.
func (c CreateOrderCommand) Number() string {
	return c.number
}

// DeliveryAddress returns the free-form destination address.
func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// IsCOD reports whether the order is paid in cash on delivery.
func (c CreateOrderCommand) IsCOD() bool {
	return c.isCOD
}

// SuccessfulOrderCount returns the customer's completed delivery count.
func (c CreateOrderCommand) SuccessfulOrderCount() int {
	return c.successfulOrderCount
}

// IsVerifiedUser reports whether the customer's account passed verification.
func (c CreateOrderCommand) IsVerifiedUser() bool {
	return c.isVerifiedUser
}

// PriorTrustScore returns the score carried over from earlier evaluations.
func (c CreateOrderCommand) PriorTrustScore() float64 {
	return c.priorTrustScore
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setNumber(number string) error {
	if number == "" {
		return ErrNumberIsRequired
	}

	c.number = number
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrDeliveryAddressIsRequired
	}

	c.deliveryAddress = address
	return nil
}

func (c *CreateOrderCommand) setSuccessfulOrderCount(count int) error {
	if count < 0 {
		return errs.NewValueIsOutOfRangeError("successful order count", count, 0, "unbounded")
	}

	c.successfulOrderCount = count
	return nil
}
