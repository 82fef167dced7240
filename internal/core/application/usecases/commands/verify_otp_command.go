package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrVerifyOTPCommandIsNotConstructed = errors.New(
		"VerifyOTPCommand must be created via NewVerifyOTPCommand constructor",
	)
	ErrCodeIsRequired = errors.New("code is required")
)

// VerifyOTPCommand represents a customer submitting a confirmation code for a
// cash-on-delivery order.
type VerifyOTPCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	code    string

	guard guard.ConstructorGuard
}

// NewVerifyOTPCommand creates a command to verify the submitted code.
func NewVerifyOTPCommand(orderID kernel.UUID, code string) (VerifyOTPCommand, error) {
	if err := orderID.Validate(); err != nil {
		return VerifyOTPCommand{}, err
	}
	if code == "" {
		return VerifyOTPCommand{}, ErrCodeIsRequired
	}

	return VerifyOTPCommand{
		orderID: orderID,
		code:    code,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c VerifyOTPCommand) Validate() error {
	return c.guard.Validate(ErrVerifyOTPCommandIsNotConstructed)
}

// OrderID returns the order being confirmed.
func (c VerifyOTPCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Code returns the submitted confirmation code.
func (c VerifyOTPCommand) Code() string {
	return c.code
}
