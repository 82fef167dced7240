package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordLocationCommandIsNotConstructed = errors.New(
	"RecordLocationCommand must be created via NewRecordLocationCommand constructor",
)

// RecordLocationCommand represents a position ping from a courier's device.
type RecordLocationCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	location  kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewRecordLocationCommand creates a command to record the courier's position.
func NewRecordLocationCommand(
	courierID kernel.UUID, location kernel.GeoPoint,
) (RecordLocationCommand, error) {
	if err := errors.Join(
		courierID.Validate(),
		location.Validate(),
	); err != nil {
		return RecordLocationCommand{}, err
	}

	return RecordLocationCommand{
		courierID: courierID,
		location:  location,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordLocationCommand) Validate() error {
	return c.guard.Validate(ErrRecordLocationCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c RecordLocationCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Location returns the reported position.
func (c RecordLocationCommand) Location() kernel.GeoPoint {
	return c.location
}
