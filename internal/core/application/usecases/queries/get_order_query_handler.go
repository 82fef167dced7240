package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order's summary from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query.
// Returns errs.ErrObjectNotFound when the order does not exist.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			paid,
			courier_id,
			delivery_address,
			geocode_status,
			geo_lat,
			geo_lon,
			is_cod,
			cod_verified,
			cod_auto_approved,
			departure_photo_ref,
			arrival_photo_ref,
			actual_delivery_minutes,
			created_at,
			assigned_at,
			pickup_time,
			completed_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()

	var resp GetOrderQueryResponse
	var id uuid.UUID
	var courierID uuid.NullUUID
	var minutes sql.NullInt64
	var assignedAt, pickupTime, completedAt sql.NullTime

	err := row.Scan(
		&id,
		&resp.Number,
		&resp.Status,
		&resp.Paid,
		&courierID,
		&resp.DeliveryAddress,
		&resp.GeocodeStatus,
		&resp.Lat,
		&resp.Lon,
		&resp.IsCOD,
		&resp.CODVerified,
		&resp.CODAutoApproved,
		&resp.DeparturePhotoRef,
		&resp.ArrivalPhotoRef,
		&minutes,
		&resp.CreatedAt,
		&assignedAt,
		&pickupTime,
		&completedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if courierID.Valid {
		assignee, idErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if idErr != nil {
			return GetOrderQueryResponse{}, idErr
		}
		resp.CourierID = &assignee
	}
	if minutes.Valid {
		m := int(minutes.Int64)
		resp.ActualDeliveryMinutes = &m
	}
	resp.AssignedAt = timePtr(assignedAt)
	resp.PickupTime = timePtr(pickupTime)
	resp.CompletedAt = timePtr(completedAt)

	return resp, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
