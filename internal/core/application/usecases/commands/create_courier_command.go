package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateCourierCommandIsNotConstructed = errors.New(
	"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
)

// CreateCourierCommand represents a request to register a new courier.
// New couriers start available for assignment with no known location.
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID   kernel.UUID
	name        string
	phone       string
	vehicleType string

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand creates a command to register a courier. Field
// requirements mirror the aggregate's: the identity fields must be non-empty.
func NewCreateCourierCommand(
	courierID kernel.UUID,
	name string,
	phone string,
	vehicleType string,
) (CreateCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return CreateCourierCommand{}, err
	}

	return CreateCourierCommand{
		courierID:   courierID,
		name:        name,
		phone:       phone,
		vehicleType: vehicleType,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

// CourierID returns the unique identifier for the courier.
func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Name returns the courier's display name.
func (c CreateCourierCommand) Name() string {
	return c.name
}

// Phone returns the courier's contact number.
func (c CreateCourierCommand) Phone() string {
	return c.phone
}

// VehicleType returns what the courier rides or drives.
func (c CreateCourierCommand) VehicleType() string {
	return c.vehicleType
}
