// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored as their wire strings so the conditional update guard
// and raw query handlers read naturally in SQL.
type OrderDTO struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number                string     `gorm:"uniqueIndex"`
	Status                string     `gorm:"index"`
	Paid                  bool
	CourierID             *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryAddress       string
	GeocodeStatus         string `gorm:"index"`
	GeocodeFailure        string
	GeoLat                *float64
	GeoLon                *float64
	IsCOD                 bool `gorm:"column:is_cod"`
	CODVerified           bool `gorm:"column:cod_verified"`
	CODAutoApproved       bool `gorm:"column:cod_auto_approved"`
	DeparturePhotoRef     string
	ArrivalPhotoRef       string
	ActualDeliveryMinutes *int
	CreatedAt             time.Time
	AssignedAt            *time.Time
	PickupTime            *time.Time
	CompletedAt           *time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var lat, lon *float64
	if point := aggregate.Geocode().Point(); point != nil {
		latVal, lonVal := point.Lat(), point.Lon()
		lat, lon = &latVal, &lonVal
	}

	return OrderDTO{
		ID:                    aggregate.ID().Bytes(),
		Number:                aggregate.Number(),
		Status:                aggregate.Status().String(),
		Paid:                  aggregate.Paid(),
		CourierID:             courierID,
		DeliveryAddress:       aggregate.DeliveryAddress(),
		GeocodeStatus:         aggregate.Geocode().Status().String(),
		GeocodeFailure:        aggregate.Geocode().Failure(),
		GeoLat:                lat,
		GeoLon:                lon,
		IsCOD:                 aggregate.IsCOD(),
		CODVerified:           aggregate.CODVerified(),
		CODAutoApproved:       aggregate.CODAutoApproved(),
		DeparturePhotoRef:     aggregate.DeparturePhotoRef(),
		ArrivalPhotoRef:       aggregate.ArrivalPhotoRef(),
		ActualDeliveryMinutes: aggregate.ActualDeliveryMinutes(),
		CreatedAt:             aggregate.CreatedAt(),
		AssignedAt:            aggregate.AssignedAt(),
		PickupTime:            aggregate.PickupTime(),
		CompletedAt:           aggregate.CompletedAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	geocodeStatus, err := order.GeocodeStatusFromString(dto.GeocodeStatus)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	var point *kernel.GeoPoint
	if dto.GeoLat != nil && dto.GeoLon != nil {
		p, pointErr := kernel.NewGeoPoint(*dto.GeoLat, *dto.GeoLon)
		if pointErr != nil {
			return nil, pointErr
		}
		point = &p
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		status,
		dto.Paid,
		courierID,
		dto.DeliveryAddress,
		point,
		geocodeStatus,
		dto.GeocodeFailure,
		dto.IsCOD,
		dto.CODVerified,
		dto.CODAutoApproved,
		dto.DeparturePhotoRef,
		dto.ArrivalPhotoRef,
		dto.ActualDeliveryMinutes,
		dto.CreatedAt,
		dto.AssignedAt,
		dto.PickupTime,
		dto.CompletedAt,
	)
}
