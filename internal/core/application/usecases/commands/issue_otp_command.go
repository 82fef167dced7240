package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrIssueOTPCommandIsNotConstructed = errors.New(
		"IssueOTPCommand must be created via NewIssueOTPCommand constructor",
	)

	// ErrOTPNotApplicable is returned when a code is requested for an order
	// that is not awaiting cash-on-delivery confirmation.
	ErrOTPNotApplicable = errors.New("order is not awaiting confirmation")
)

// IssueOTPCommand represents a request for a fresh confirmation code,
// typically after the previous one expired or never arrived.
type IssueOTPCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewIssueOTPCommand creates a command to issue a confirmation code for the order.
func NewIssueOTPCommand(orderID kernel.UUID) (IssueOTPCommand, error) {
	if err := orderID.Validate(); err != nil {
		return IssueOTPCommand{}, err
	}

	return IssueOTPCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c IssueOTPCommand) Validate() error {
	return c.guard.Validate(ErrIssueOTPCommandIsNotConstructed)
}

// OrderID returns the order awaiting confirmation.
func (c IssueOTPCommand) OrderID() kernel.UUID {
	return c.orderID
}
