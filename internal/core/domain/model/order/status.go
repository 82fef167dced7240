package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with a single declared transition table so that
// every guard is enforced in one place instead of being re-validated at call sites.
//
// State transitions:
//
//	Pending ──┬──> WaitingConfirmation ──> Confirmed ──> Processing ──> Ready ──> Delivering ──> Completed
//	          │         (COD orders)           │              │           │
//	          └──────────────────────────> Confirmed          │           │
//	            (prepaid orders)               │              │           │
//	                                           └──────────────┴───────────┴──> Cancelled
//
// Completed and Cancelled are terminal: no transition leaves them.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status assigned at checkout.
	Pending

	// WaitingConfirmation holds cash-on-delivery orders until the customer is
	// verified, either by the trust evaluator or by a one-time code.
	WaitingConfirmation

	// Confirmed indicates the order passed the payment gate and entered the
	// fulfillment queue.
	Confirmed

	// Processing indicates the outlet is preparing the order.
	Processing

	// Ready indicates the order is packed and waiting for the courier to depart.
	Ready

	// Delivering indicates the courier is en route to the customer.
	Delivering

	// Completed indicates the order was delivered. Terminal.
	Completed

	// Cancelled indicates the order was cancelled before delivery. Terminal.
	Cancelled
)

// getStatusStrings returns the wire representation for every Status value,
// including Unknown, to support string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "unknown",
		Pending:             "pending",
		WaitingConfirmation: "waiting_confirmation",
		Confirmed:           "confirmed",
		Processing:          "processing",
		Ready:               "ready",
		Delivering:          "delivering",
		Completed:           "completed",
		Cancelled:           "cancelled",
	}
}

// getValidStatusStrings returns only valid Status values to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:             "pending",
		WaitingConfirmation: "waiting_confirmation",
		Confirmed:           "confirmed",
		Processing:          "processing",
		Ready:               "ready",
		Delivering:          "delivering",
		Completed:           "completed",
		Cancelled:           "cancelled",
	}
}

// transitionTargets is the single declared transition table.
// An edge absent from this table is rejected regardless of actor; gates on
// individual edges (COD verification, photo evidence, courier assignment)
// are enforced by the Order aggregate on top of this table.
func transitionTargets() map[Status][]Status {
	return map[Status][]Status{
		Pending:             {WaitingConfirmation, Confirmed, Cancelled},
		WaitingConfirmation: {Confirmed, Cancelled},
		Confirmed:           {Processing, Cancelled},
		Processing:          {Ready, Cancelled},
		Ready:               {Delivering},
		Delivering:          {Completed},
	}
}

// StatusFromString parses the wire representation of a status.
// Returns an error for unrecognized or empty input.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause(
		"status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the declared states.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status ("pending", "delivering", ...).
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsTracked reports whether orders in this status relay courier location
// events to tracking subscribers.
func (s Status) IsTracked() bool {
	return s == Processing || s == Ready || s == Delivering
}

// CanTransitionTo reports whether the edge s -> target exists in the declared
// transition table. It says nothing about gates: an existing edge may still be
// refused by the aggregate when its evidence requirements are unmet.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitionTargets()[s] {
		if t == target {
			return true
		}
	}
	return false
}

// CanAssignCourier reports whether a courier may be assigned while the order
// is in this status. Assignment happens during preparation, before departure;
// earlier statuses have no courier and later ones already required one.
func (s Status) CanAssignCourier() bool {
	return s == Processing || s == Ready
}
