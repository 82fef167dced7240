package courier

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Domain errors for courier operations.
var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when attempting to create a courier without a phone number.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrVehicleTypeIsRequired is returned when attempting to create a courier without a vehicle type.
	ErrVehicleTypeIsRequired = errs.NewValueIsRequiredError("vehicle type")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier or RestoreCourier constructor")
	// ErrNotAvailable is returned when assigning a courier who is busy or offline.
	ErrNotAvailable = errors.New("courier is not available")
	// ErrNotBusy is returned when releasing a courier who holds no assignment.
	ErrNotBusy = errors.New("courier is not busy")
)

// Courier is the aggregate root for a delivery courier.
// It tracks availability for assignment and the most recent reported position.
//
// Business rules:
//   - Only available couriers can be assigned (MarkBusy)
//   - Release returns a busy courier to available on completion or cancellation
//   - Location pings update the position regardless of assignment state;
//     an idle courier may still report where they are
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// phone is the courier's contact number used by the notification sink
	phone string
	// vehicleType describes the courier's transport (bike, motorcycle, car)
	vehicleType string
	// status is the courier's availability for assignment
	status Status
	// location is the last reported position, nil until the first ping
	location *kernel.GeoPoint
	// locationUpdatedAt is when the last ping was received
	locationUpdatedAt *time.Time

	guard guard.ConstructorGuard
}

// NewCourier creates a Courier in Available status with no reported position.
// All parameters are validated; errors are joined so every invalid field is reported.
func NewCourier(id kernel.UUID, name string, phone string, vehicleType string) (*Courier, error) {
	c := &Courier{
		status: Available,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setPhone(phone),
		c.setVehicleType(vehicleType),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage.
// Unlike NewCourier it accepts the persisted availability and position.
func RestoreCourier(
	id kernel.UUID,
	name string,
	phone string,
	vehicleType string,
	status Status,
	location *kernel.GeoPoint,
	locationUpdatedAt *time.Time,
) (*Courier, error) {
	c, err := NewCourier(id, name, phone, vehicleType)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	c.status = status
	c.location = location
	c.locationUpdatedAt = locationUpdatedAt
	return c, nil
}

// Validate ensures the Courier instance was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID { return c.id }

// Name returns the courier's human-readable name.
func (c *Courier) Name() string { return c.name }

// Phone returns the courier's contact number.
func (c *Courier) Phone() string { return c.phone }

// VehicleType returns the courier's transport type.
func (c *Courier) VehicleType() string { return c.vehicleType }

// Status returns the courier's availability status.
func (c *Courier) Status() Status { return c.status }

// Location returns the last reported position, or nil before the first ping.
func (c *Courier) Location() *kernel.GeoPoint { return c.location }

// LocationUpdatedAt returns when the last ping was received, or nil.
func (c *Courier) LocationUpdatedAt() *time.Time { return c.locationUpdatedAt }

// MarkBusy transitions the courier to Busy for a new assignment.
// Returns ErrNotAvailable if the courier is busy or offline.
func (c *Courier) MarkBusy() error {
	if c.status != Available {
		return ErrNotAvailable
	}
	c.status = Busy
	return nil
}

// Release returns a busy courier to Available.
// Called when their order completes or is cancelled.
// Returns ErrNotBusy if the courier holds no assignment.
func (c *Courier) Release() error {
	if c.status != Busy {
		return ErrNotBusy
	}
	c.status = Available
	return nil
}

// GoOffline takes an available courier off shift.
// A busy courier must be released first.
func (c *Courier) GoOffline() error {
	if c.status != Available {
		return ErrNotAvailable
	}
	c.status = Offline
	return nil
}

// GoOnline brings an offline courier back on shift.
func (c *Courier) GoOnline() error {
	if c.status != Offline {
		return errs.NewValueIsInvalidError("courier status")
	}
	c.status = Available
	return nil
}

// RecordLocation updates the courier's last reported position.
// Pings are accepted in any availability state.
func (c *Courier) RecordLocation(point kernel.GeoPoint, now time.Time) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.location = &point
	c.locationUpdatedAt = &now
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	c.phone = phone
	return nil
}

func (c *Courier) setVehicleType(vehicleType string) error {
	if vehicleType == "" {
		return ErrVehicleTypeIsRequired
	}
	c.vehicleType = vehicleType
	return nil
}
