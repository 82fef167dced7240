package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrNumberIsRequired is returned when attempting to create an order without an order number.
	ErrNumberIsRequired = errs.NewValueIsRequiredError("order number")

	// ErrAddressIsRequired is returned when attempting to create an order without a delivery address.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("delivery address")

	// ErrPhotoRefIsRequired is returned when attaching an empty photo reference.
	ErrPhotoRefIsRequired = errs.NewValueIsRequiredError("photo reference")
)

// Order is the aggregate root for a delivery order. It owns the fulfillment
// state machine: every status change goes through TransitionTo, which enforces
// the declared transition table and the verification/evidence gates in one place.
//
// Invariants:
//   - A courier is assigned iff status is processing, ready, delivering, or
//     completed after assignment; cancellation releases the courier.
//   - A completed order always carries an arrival photo reference.
//   - Terminal orders (completed, cancelled) never change again; they are
//     retained for audit and never physically deleted.
//   - Can only be created through NewOrder or RestoreOrder.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// number is the human-facing order number (e.g. "ORD-1001")
	number string

	// status is the current state in the fulfillment lifecycle
	status Status

	// paid records whether payment was collected (set on COD completion)
	paid bool

	// courierID is the assigned courier's ID (nil if unassigned)
	courierID *kernel.UUID

	// deliveryAddress is the free-form address given at checkout
	deliveryAddress string

	// geocode is the address resolution state
	geocode Geocode

	// isCOD marks cash-on-delivery orders, which pass the trust/OTP gate
	isCOD bool

	// codVerified is set by the OTP verifier or the trust evaluator
	codVerified bool

	// codAutoApproved marks orders whose COD gate was bypassed by trust score
	codAutoApproved bool

	// departurePhotoRef and arrivalPhotoRef are opaque media store paths
	departurePhotoRef string
	arrivalPhotoRef   string

	// actualDeliveryMinutes is derived on completion from pickupTime
	actualDeliveryMinutes *int

	createdAt   time.Time
	assignedAt  *time.Time
	pickupTime  *time.Time
	completedAt *time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates an Order in Pending status with a pending geocode.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - number: human-facing order number (must be non-empty)
//   - deliveryAddress: checkout address (must be non-empty)
//   - isCOD: whether payment is collected on delivery
//   - now: creation timestamp
//
// Returns the order, or a joined validation error if any parameter is invalid.
func NewOrder(id kernel.UUID, number string, deliveryAddress string, isCOD bool, now time.Time) (*Order, error) {
	o := &Order{
		status:    Pending,
		isCOD:     isCOD,
		geocode:   Geocode{status: GeocodePending},
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistence.
// Unlike NewOrder it accepts the full persisted state and validates only
// structural integrity, not business transitions.
func RestoreOrder(
	id kernel.UUID,
	number string,
	status Status,
	paid bool,
	courierID *kernel.UUID,
	deliveryAddress string,
	geocodePoint *kernel.GeoPoint,
	geocodeStatus GeocodeStatus,
	geocodeFailure string,
	isCOD bool,
	codVerified bool,
	codAutoApproved bool,
	departurePhotoRef string,
	arrivalPhotoRef string,
	actualDeliveryMinutes *int,
	createdAt time.Time,
	assignedAt *time.Time,
	pickupTime *time.Time,
	completedAt *time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		status.Validate(),
		geocodeStatus.Validate(),
	); err != nil {
		return nil, err
	}
	if number == "" {
		return nil, ErrNumberIsRequired
	}

	return &Order{
		id:                    id,
		number:                number,
		status:                status,
		paid:                  paid,
		courierID:             courierID,
		deliveryAddress:       deliveryAddress,
		geocode:               Geocode{point: geocodePoint, status: geocodeStatus, failure: geocodeFailure},
		isCOD:                 isCOD,
		codVerified:           codVerified,
		codAutoApproved:       codAutoApproved,
		departurePhotoRef:     departurePhotoRef,
		arrivalPhotoRef:       arrivalPhotoRef,
		actualDeliveryMinutes: actualDeliveryMinutes,
		createdAt:             createdAt,
		assignedAt:            assignedAt,
		pickupTime:            pickupTime,
		completedAt:           completedAt,
		guard:                 guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Number returns the human-facing order number.
func (o *Order) Number() string { return o.number }

// Status returns the current fulfillment status.
func (o *Order) Status() Status { return o.status }

// Paid reports whether payment was collected.
func (o *Order) Paid() bool { return o.paid }

// Courier returns the assigned courier's ID, or nil if unassigned.
func (o *Order) Courier() *kernel.UUID { return o.courierID }

// DeliveryAddress returns the checkout address.
func (o *Order) DeliveryAddress() string { return o.deliveryAddress }

// Geocode returns the address resolution state.
func (o *Order) Geocode() Geocode { return o.geocode }

// IsCOD reports whether payment is collected on delivery.
func (o *Order) IsCOD() bool { return o.isCOD }

// CODVerified reports whether the COD gate has been satisfied.
func (o *Order) CODVerified() bool { return o.codVerified }

// CODAutoApproved reports whether the COD gate was bypassed by trust score.
func (o *Order) CODAutoApproved() bool { return o.codAutoApproved }

// DeparturePhotoRef returns the departure evidence path, or "" if absent.
func (o *Order) DeparturePhotoRef() string { return o.departurePhotoRef }

// ArrivalPhotoRef returns the arrival evidence path, or "" if absent.
func (o *Order) ArrivalPhotoRef() string { return o.arrivalPhotoRef }

// ActualDeliveryMinutes returns the measured delivery duration, or nil before completion.
func (o *Order) ActualDeliveryMinutes() *int { return o.actualDeliveryMinutes }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// AssignedAt returns when a courier was last assigned, or nil.
func (o *Order) AssignedAt() *time.Time { return o.assignedAt }

// PickupTime returns when the courier departed, or nil.
func (o *Order) PickupTime() *time.Time { return o.pickupTime }

// CompletedAt returns when the order was delivered, or nil.
func (o *Order) CompletedAt() *time.Time { return o.completedAt }

// TransitionTo applies the status transition to target, enforcing the declared
// table and every gate on the requested edge.
//
// Returns:
//   - (true, nil) when the order changed state
//   - (false, nil) for the idempotent no-op of cancelling an already-cancelled order
//   - (false, *InvalidTransitionError) when the edge is not in the table
//   - (false, *GateNotSatisfiedError) when the edge exists but its gate is unmet
//
// On ready -> delivering the pickup time is recorded; on delivering -> completed
// the delivery duration is derived and COD payment is marked collected; on
// cancellation any assigned courier is released so the courier/status invariant
// holds. The caller persists the result and appends exactly one audit entry per
// accepted change.
func (o *Order) TransitionTo(target Status, now time.Time) (bool, error) {
	if err := target.Validate(); err != nil {
		return false, err
	}

	// Cancelling a cancelled order is a no-op, not an error.
	if o.status == Cancelled && target == Cancelled {
		return false, nil
	}

	if !o.status.CanTransitionTo(target) {
		return false, NewInvalidTransitionError(o.status, target)
	}

	switch target {
	case WaitingConfirmation:
		// The COD gate only exists for cash-on-delivery orders.
		if !o.isCOD {
			return false, NewInvalidTransitionError(o.status, target)
		}
	case Confirmed:
		if o.status == Pending && o.isCOD {
			// COD orders must pass through the verification gate.
			return false, NewInvalidTransitionError(o.status, target)
		}
		if o.status == WaitingConfirmation && !o.codVerified {
			return false, NewGateNotSatisfiedError(GateCODVerification)
		}
	case Delivering:
		if o.departurePhotoRef == "" {
			return false, NewGateNotSatisfiedError(GateDeparturePhoto)
		}
		if o.courierID == nil {
			return false, NewGateNotSatisfiedError(GateCourierAssigned)
		}
		o.pickupTime = &now
	case Completed:
		if o.arrivalPhotoRef == "" {
			return false, NewGateNotSatisfiedError(GateArrivalPhoto)
		}
		o.completedAt = &now
		if o.pickupTime != nil {
			minutes := int(now.Sub(*o.pickupTime).Minutes())
			o.actualDeliveryMinutes = &minutes
		}
		if o.isCOD {
			o.paid = true
		}
	case Cancelled:
		o.courierID = nil
		o.assignedAt = nil
	}

	o.status = target
	return true, nil
}

// VerifyCOD marks the cash-on-delivery gate as satisfied.
// auto distinguishes trust-based bypass from OTP verification.
func (o *Order) VerifyCOD(auto bool) {
	o.codVerified = true
	o.codAutoApproved = auto
}

// AssignCourier assigns the order to a courier while it is being prepared.
// Assigning while another courier holds the order is treated as a reassignment:
// the previous courier's ID is returned so the caller can release them.
//
// Returns ErrCourierNotAssignable when the current status does not admit
// assignment, or the previous courier's ID (nil on first assignment).
func (o *Order) AssignCourier(courierID kernel.UUID, now time.Time) (*kernel.UUID, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	if !o.status.CanAssignCourier() {
		return nil, ErrCourierNotAssignable
	}

	previous := o.courierID
	o.courierID = &courierID
	o.assignedAt = &now
	return previous, nil
}

// AttachDeparturePhoto records the departure evidence reference.
// The ready -> delivering gate reads it; attachment itself never changes status.
func (o *Order) AttachDeparturePhoto(ref string) error {
	if ref == "" {
		return ErrPhotoRefIsRequired
	}
	o.departurePhotoRef = ref
	return nil
}

// AttachArrivalPhoto records the arrival evidence reference.
// The delivering -> completed gate reads it; attachment itself never changes status.
func (o *Order) AttachArrivalPhoto(ref string) error {
	if ref == "" {
		return ErrPhotoRefIsRequired
	}
	o.arrivalPhotoRef = ref
	return nil
}

// SetGeocodeResult records a successful address resolution.
func (o *Order) SetGeocodeResult(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	o.geocode = Geocode{point: &point, status: GeocodeOK}
	return nil
}

// SetGeocodeFailure records a failed address resolution.
// The failure never blocks fulfillment; the message is retained for diagnostics.
func (o *Order) SetGeocodeFailure(cause string) {
	o.geocode = Geocode{status: GeocodeFailed, failure: cause}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number string) error {
	if number == "" {
		return ErrNumberIsRequired
	}
	o.number = number
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	o.deliveryAddress = address
	return nil
}
