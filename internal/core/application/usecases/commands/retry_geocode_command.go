package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrRetryGeocodeCommandIsNotConstructed = errors.New(
	"RetryGeocodeCommand must be created via NewRetryGeocodeCommand constructor")

// DefaultGeocodeRetryBatch bounds how many failed orders one sweep re-resolves.
const DefaultGeocodeRetryBatch = 20

// RetryGeocodeCommand re-resolves coordinates for orders whose geocoding
// failed at intake. Run periodically by the geocode retry job.
type RetryGeocodeCommand struct {
	limit int

	guard guard.ConstructorGuard
}

// NewRetryGeocodeCommand creates the command. A non-positive limit falls back
// to DefaultGeocodeRetryBatch.
func NewRetryGeocodeCommand(limit int) RetryGeocodeCommand {
	if limit <= 0 {
		limit = DefaultGeocodeRetryBatch
	}

	return RetryGeocodeCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c RetryGeocodeCommand) Validate() error {
	return c.guard.Validate(ErrRetryGeocodeCommandIsNotConstructed)
}

// Limit returns the batch size for this sweep.
func (c RetryGeocodeCommand) Limit() int {
	return c.limit
}
