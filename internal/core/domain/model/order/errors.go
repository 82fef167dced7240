package order

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the transition error taxonomy.
// All of them are recoverable by the caller; none are fatal to the process.
var (
	// ErrInvalidTransition is returned when the requested edge is not in the
	// declared transition table. The order is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrConflict is returned when an optimistic-concurrency check fails because
	// another actor transitioned the order first. Callers should refetch and retry.
	ErrConflict = errors.New("order was modified concurrently")

	// ErrGateNotSatisfied is returned when a transition edge exists but its
	// precondition (COD verification or photo evidence) is unmet.
	ErrGateNotSatisfied = errors.New("gate not satisfied")

	// ErrCourierNotAssignable is returned when assigning a courier to an order
	// whose status does not admit assignment.
	ErrCourierNotAssignable = errors.New("order does not accept courier assignment in its current status")
)

// InvalidTransitionError reports a rejected edge with both endpoints.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the edge from -> to.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Gate names surfaced by GateNotSatisfiedError so callers know which
// precondition blocked the transition.
const (
	GateCODVerification = "cod_verification"
	GateDeparturePhoto  = "departure_photo"
	GateArrivalPhoto    = "arrival_photo"
	GateCourierAssigned = "courier_assigned"
)

// GateNotSatisfiedError reports which gate blocked an otherwise valid edge.
type GateNotSatisfiedError struct {
	Gate string
}

// NewGateNotSatisfiedError creates a GateNotSatisfiedError naming the failed gate.
func NewGateNotSatisfiedError(gate string) *GateNotSatisfiedError {
	return &GateNotSatisfiedError{Gate: gate}
}

func (e *GateNotSatisfiedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrGateNotSatisfied, e.Gate)
}

func (e *GateNotSatisfiedError) Unwrap() error {
	return ErrGateNotSatisfied
}
