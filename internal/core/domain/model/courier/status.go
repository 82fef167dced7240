package courier

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents a courier's availability for order assignment.
//
// State transitions:
//
//	Available ──> Busy      (order assigned)
//	Busy      ──> Available (order completed or cancelled)
//	Available ──> Offline   (end of shift)
//	Offline   ──> Available (start of shift)
//
// Busy couriers cannot take another assignment and cannot go offline
// without first being released.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Available means the courier can be assigned to an order.
	Available

	// Busy means the courier is working an assigned order.
	Busy

	// Offline means the courier is off shift and invisible to assignment.
	Offline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Available:     "available",
		Busy:          "busy",
		Offline:       "offline",
	}
}

// StatusFromString parses the wire representation of a courier status.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != StatusUnknown && str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"courier status", fmt.Errorf("%q is not a valid courier status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	switch s {
	case Available, Busy, Offline:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause(
			"courier status", fmt.Errorf("%d is not a valid courier status", s))
	}
}

// String returns the wire name of the status. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
