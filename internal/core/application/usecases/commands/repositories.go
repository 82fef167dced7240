// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// OTPRepoFactory provides access to the OTP challenge repository within a transaction.
	OTPRepoFactory interface {
		OTPRepository() ports.OTPRepository
	}

	// AuditRepoFactory provides access to the audit log repository within a transaction.
	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	// OrderUoW manages transactions for order-plus-audit operations.
	// Every accepted status change writes the order and its audit entry atomically.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AuditRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}

	// OTPUoW manages transactions for challenge issue/verify operations,
	// which touch the challenge, the order, and the audit log together.
	OTPUoW interface {
		TxManager
		OrderRepoFactory
		OTPRepoFactory
		AuditRepoFactory
	}

	// OTPUoWFactory creates new OTP unit of work instances.
	OTPUoWFactory interface {
		Create() OTPUoW
	}

	// UoW manages transactions across order, courier, and audit aggregates.
	// Used for commands that coordinate changes between multiple aggregate types,
	// such as courier assignment and courier-releasing transitions.
	UoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
		AuditRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// TransitionRecorder counts accepted and rejected status transitions.
// Implemented by the metrics registry; handlers never block on it.
type TransitionRecorder interface {
	TransitionAccepted(target string)
	TransitionRejected(reason string)
}
