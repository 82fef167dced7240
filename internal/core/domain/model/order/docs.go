// Package order contains the Order aggregate and its fulfillment state machine.
//
// The package centralizes every status guard in one transition table (status.go)
// and one aggregate method (Order.TransitionTo) instead of scattering checks
// across endpoints. It also defines the append-only AuditEntry recorded for each
// accepted change and the Actor roles allowed to request transitions.
//
// Gate semantics:
//   - cash-on-delivery orders wait in WaitingConfirmation until verified by
//     trust score or one-time code
//   - departure requires photo evidence and an assigned courier
//   - completion requires arrival photo evidence
//
// Errors follow the errs package pattern: sentinel errors (ErrInvalidTransition,
// ErrConflict, ErrGateNotSatisfied) for errors.Is classification, with typed
// wrappers carrying the rejected edge or the failed gate.
package order
