package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableCouriersQueryHandler lists couriers open for assignment.
type GetAvailableCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableCouriersQueryHandler creates a handler for courier listing.
func NewGetAvailableCouriersQueryHandler(db *gorm.DB) GetAvailableCouriersQueryHandler {
	return GetAvailableCouriersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by name for stable output.
func (h GetAvailableCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableCouriersQuery,
) ([]GetAvailableCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	couriers := make([]GetAvailableCouriersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			vehicle_type,
			location_lat,
			location_lon,
			location_updated_at
		FROM couriers
		WHERE status = ?
		ORDER BY name
	`, courier.Available.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetAvailableCouriersQueryResponse
		var id uuid.UUID
		var updatedAt sql.NullTime

		err = rows.Scan(
			&id,
			&resp.Name,
			&resp.VehicleType,
			&resp.Lat,
			&resp.Lon,
			&updatedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.ID, err = kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		resp.LocationUpdatedAt = timePtr(updatedAt)
		couriers = append(couriers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return couriers, nil
}
