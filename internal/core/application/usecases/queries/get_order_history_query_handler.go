package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler reads an order's audit timeline oldest first.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for timeline queries.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the query. An order with no entries yields an empty slice,
// indistinguishable from an unknown order: the timeline endpoint does not
// probe for existence.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) ([]GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries := make([]GetOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			from_status,
			to_status,
			actor,
			notes,
			created_at
		FROM audit_entries
		WHERE order_id = ?
		ORDER BY created_at, id
	`, query.OrderID().String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var entry GetOrderHistoryQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.Actor,
			&entry.Notes,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entry.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
