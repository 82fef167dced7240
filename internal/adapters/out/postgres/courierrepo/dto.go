// Package courierrepo implements courier persistence over GORM.
package courierrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO represents the database structure for persisting courier aggregates.
type CourierDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name              string
	Phone             string
	VehicleType       string
	Status            string `gorm:"index"`
	LocationLat       *float64
	LocationLon       *float64
	LocationUpdatedAt *time.Time
}

// TableName specifies the database table name for courier entities.
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	var lat, lon *float64
	if point := aggregate.Location(); point != nil {
		latVal, lonVal := point.Lat(), point.Lon()
		lat, lon = &latVal, &lonVal
	}

	return CourierDTO{
		ID:                aggregate.ID().Bytes(),
		Name:              aggregate.Name(),
		Phone:             aggregate.Phone(),
		VehicleType:       aggregate.VehicleType(),
		Status:            aggregate.Status().String(),
		LocationLat:       lat,
		LocationLon:       lon,
		LocationUpdatedAt: aggregate.LocationUpdatedAt(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := courier.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var point *kernel.GeoPoint
	if dto.LocationLat != nil && dto.LocationLon != nil {
		p, pointErr := kernel.NewGeoPoint(*dto.LocationLat, *dto.LocationLon)
		if pointErr != nil {
			return nil, pointErr
		}
		point = &p
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		dto.Phone,
		dto.VehicleType,
		status,
		point,
		dto.LocationUpdatedAt,
	)
}
