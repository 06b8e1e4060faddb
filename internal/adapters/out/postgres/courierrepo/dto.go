// Package courierrepo persists couriers in the shared users table and answers
// proximity queries over their last known positions.
package courierrepo

import (
	"time"

	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is a users row. Couriers are the rows whose role is courier.Role.
type CourierDTO struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name      string      `gorm:"type:varchar(255);not null"`
	Mobile    string      `gorm:"type:varchar(32);not null"`
	Role      string      `gorm:"type:varchar(32);not null;index"`
	Location  LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	IsOnline  bool        `gorm:"not null;default:false"`
	Handle    string      `gorm:"type:varchar(255);not null;default:''"`
	// LastSeenAt is refreshed by every identify and position report.
	LastSeenAt *time.Time `gorm:"index"`
	UpdatedAt  time.Time
}

func (CourierDTO) TableName() string {
	return "users"
}

// LocationDTO holds the position in degrees.
type LocationDTO struct {
	Latitude  float64 `gorm:"type:double precision;not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:     aggregate.ID().Bytes(),
		Name:   aggregate.Name(),
		Mobile: aggregate.Mobile(),
		Role:   courier.Role,
		Location: LocationDTO{
			Latitude:  aggregate.Position().Latitude(),
			Longitude: aggregate.Position().Longitude(),
		},
		IsOnline: aggregate.IsOnline(),
		Handle:   aggregate.Handle(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	position, err := kernel.NewGeoPoint(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(id, dto.Name, dto.Mobile, position, dto.IsOnline, dto.Handle)
}
