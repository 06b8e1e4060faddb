package ports

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier by id.
	// Returns errs.ErrObjectNotFound if no courier with that id exists.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// UpdatePresence persists the online flag and channel handle.
	UpdatePresence(ctx context.Context, aggregate *courier.Courier) error

	// UpdatePosition overwrites the stored position in a single statement.
	// Last write wins.
	UpdatePosition(ctx context.Context, id kernel.UUID, position kernel.GeoPoint) error

	// DisconnectIdle marks offline the online couriers whose last identify or
	// position report is older than cutoff, and returns how many it changed.
	DisconnectIdle(ctx context.Context, cutoff time.Time) (int, error)
}

// NearbyCourier is one geo index hit.
type NearbyCourier struct {
	Courier        *courier.Courier
	DistanceMeters float64
}

// GeoIndex answers radius queries over courier positions.
type GeoIndex interface {
	// Nearest returns users with the given role within radiusMeters of origin,
	// ordered by ascending distance. When onlineOnly is set, disconnected
	// users are skipped.
	Nearest(
		ctx context.Context,
		origin kernel.GeoPoint,
		radiusMeters float64,
		role string,
		onlineOnly bool,
	) ([]NearbyCourier, error)
}
