package courierrepo

import (
	"context"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/ports"

	"gorm.io/gorm"
)

// nearestSQL computes the haversine distance in SQL so the radius filter and
// the ordering happen in the database. LEAST guards asin against rounding
// slightly above 1.
const nearestSQL = `
	SELECT *
	FROM (
		SELECT
			id, name, mobile, role,
			location_latitude, location_longitude,
			is_online, handle, updated_at,
			2 * @radius * ASIN(LEAST(1, SQRT(
				POWER(SIN(RADIANS(location_latitude - @lat) / 2), 2) +
				COS(RADIANS(@lat)) * COS(RADIANS(location_latitude)) *
				POWER(SIN(RADIANS(location_longitude - @lon) / 2), 2)
			))) AS distance_meters
		FROM users
		WHERE role = @role
			AND (@online_only = FALSE OR is_online)
	) nearby
	WHERE distance_meters <= @max_distance
	ORDER BY distance_meters, id
`

// GormGeoIndex implements ports.GeoIndex over the users table.
type GormGeoIndex struct {
	db *gorm.DB
}

func NewGormGeoIndex(db *gorm.DB) *GormGeoIndex {
	return &GormGeoIndex{db: db}
}

type nearbyRow struct {
	CourierDTO     `gorm:"embedded"`
	DistanceMeters float64
}

func (g *GormGeoIndex) Nearest(
	ctx context.Context,
	origin kernel.GeoPoint,
	radiusMeters float64,
	role string,
	onlineOnly bool,
) ([]ports.NearbyCourier, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	var rows []nearbyRow
	err := g.db.WithContext(ctx).Raw(nearestSQL, map[string]any{
		"radius":       kernel.EarthRadiusMeters,
		"lat":          origin.Latitude(),
		"lon":          origin.Longitude(),
		"role":         role,
		"online_only":  onlineOnly,
		"max_distance": radiusMeters,
	}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]ports.NearbyCourier, 0, len(rows))
	for _, row := range rows {
		c, err := toDomain(row.CourierDTO)
		if err != nil {
			return nil, err
		}
		result = append(result, ports.NearbyCourier{Courier: c, DistanceMeters: row.DistanceMeters})
	}

	return result, nil
}
