package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// AuditRepository defines the persistence contract for the append-only
// delivery audit log. Entries are never mutated or deleted; only the state
// machine writes them.
type AuditRepository interface {
	// Append persists one audit entry for an accepted change.
	Append(ctx context.Context, entry order.AuditEntry) error

	// History retrieves all entries for the order ordered by creation time
	// ascending. The read-only replay surface for timelines.
	History(ctx context.Context, orderID kernel.UUID) ([]order.AuditEntry, error)
}
