package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAuditEntryIsNotConstructed is returned when an AuditEntry was not created
// through the NewAuditEntry constructor.
var ErrAuditEntryIsNotConstructed = errors.New(
	"AuditEntry must be created via NewAuditEntry constructor",
)

// Actor identifies who requested a state transition.
// It is recorded verbatim in the audit log.
type Actor string

// Known actors. ActorSystem covers automated transitions such as trust-based
// COD auto-approval and OTP-driven confirmation.
const (
	ActorAdmin    Actor = "admin"
	ActorCourier  Actor = "courier"
	ActorCustomer Actor = "customer"
	ActorSystem   Actor = "system"
)

// ActorFromString parses an actor role received from the transport layer.
func ActorFromString(s string) (Actor, error) {
	switch Actor(s) {
	case ActorAdmin, ActorCourier, ActorCustomer, ActorSystem:
		return Actor(s), nil
	default:
		return "", errs.NewValueIsInvalidError("actor")
	}
}

// Validate checks that the actor is one of the known roles.
func (a Actor) Validate() error {
	_, err := ActorFromString(string(a))
	return err
}

// AuditEntry is an immutable record of one accepted state or assignment change.
// Entries are append-only: they are never mutated or deleted, and only the
// state machine writes them. One entry is produced per accepted transition.
type AuditEntry struct {
	id         kernel.UUID
	orderID    kernel.UUID
	fromStatus Status
	toStatus   Status
	actor      Actor
	notes      string
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewAuditEntry creates an audit record for the transition fromStatus -> toStatus.
// For assignment entries both endpoints carry the same status and the courier
// is named in notes.
func NewAuditEntry(
	orderID kernel.UUID,
	fromStatus Status,
	toStatus Status,
	actor Actor,
	notes string,
	createdAt time.Time,
) (AuditEntry, error) {
	if err := errors.Join(
		orderID.Validate(),
		fromStatus.Validate(),
		toStatus.Validate(),
		actor.Validate(),
	); err != nil {
		return AuditEntry{}, err
	}

	return AuditEntry{
		id:         kernel.NewUUID(),
		orderID:    orderID,
		fromStatus: fromStatus,
		toStatus:   toStatus,
		actor:      actor,
		notes:      notes,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// RestoreAuditEntry reconstructs an entry from persistence without re-running
// invariants beyond construction guarding.
func RestoreAuditEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	fromStatus Status,
	toStatus Status,
	actor Actor,
	notes string,
	createdAt time.Time,
) AuditEntry {
	return AuditEntry{
		id:         id,
		orderID:    orderID,
		fromStatus: fromStatus,
		toStatus:   toStatus,
		actor:      actor,
		notes:      notes,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}
}

// Validate ensures the entry was created through a constructor.
func (e AuditEntry) Validate() error {
	return e.guard.Validate(ErrAuditEntryIsNotConstructed)
}

// ID returns the entry's unique identifier.
func (e AuditEntry) ID() kernel.UUID {
	return e.id
}

// OrderID returns the order the entry belongs to.
func (e AuditEntry) OrderID() kernel.UUID {
	return e.orderID
}

// FromStatus returns the status before the change.
func (e AuditEntry) FromStatus() Status {
	return e.fromStatus
}

// ToStatus returns the status after the change.
func (e AuditEntry) ToStatus() Status {
	return e.toStatus
}

// Actor returns who requested the change.
func (e AuditEntry) Actor() Actor {
	return e.actor
}

// Notes returns the free-form annotation recorded with the change.
func (e AuditEntry) Notes() string {
	return e.notes
}

// CreatedAt returns when the change was accepted.
func (e AuditEntry) CreatedAt() time.Time {
	return e.createdAt
}
