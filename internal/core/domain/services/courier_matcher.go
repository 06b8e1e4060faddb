package services

import (
	"cmp"
	"errors"
	"slices"

	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
)

const (
	// DefaultRadiusMeters is the search radius used when none is configured.
	DefaultRadiusMeters = 5000.0
	// MaxRadiusMeters caps the search radius.
	MaxRadiusMeters = 100_000.0
)

// Candidate is a courier eligible for a broadcast together with its distance
// to the delivery location.
type Candidate struct {
	Courier        *courier.Courier
	DistanceMeters float64
}

// MatchCriteria describes one matcher run.
type MatchCriteria struct {
	Origin       kernel.GeoPoint
	RadiusMeters float64
	// OnlineOnly excludes couriers whose channel is disconnected.
	OnlineOnly bool
}

func (c MatchCriteria) Validate() error {
	var radiusErr error
	if c.RadiusMeters <= 0 || c.RadiusMeters > MaxRadiusMeters {
		radiusErr = errs.NewValueIsOutOfRangeError("radius meters", c.RadiusMeters, 0, MaxRadiusMeters)
	}
	return errors.Join(c.Origin.Validate(), radiusErr)
}

// CourierMatcher selects the couriers an order is broadcast to.
//
// Input is whatever the geo index returned for the area plus the set of busy
// couriers. The matcher never trusts the index ordering or radius: distance is
// recomputed with the haversine formula, couriers outside the radius are
// dropped, busy (and optionally offline) couriers are removed and the rest is
// ordered nearest first. Ties keep the index order.
//
// Example:
//
//	nearby, _ := geoIndex.Nearest(ctx, origin, radius, courier.Role, false)
//	busy, _ := assignments.BusyCourierIDs(ctx)
//	candidates, err := services.NewCourierMatcher().Match(
//	    services.MatchCriteria{Origin: origin, RadiusMeters: radius}, nearby, busy)
//
// An empty result is not an error.
type CourierMatcher struct{}

func NewCourierMatcher() CourierMatcher {
	return CourierMatcher{}
}

func (m CourierMatcher) Match(criteria MatchCriteria, nearby []*courier.Courier, busy []kernel.UUID) ([]Candidate, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	busySet := make(map[kernel.UUID]struct{}, len(busy))
	for _, id := range busy {
		busySet[id] = struct{}{}
	}

	seen := make(map[kernel.UUID]struct{}, len(nearby))
	candidates := make([]Candidate, 0, len(nearby))
	for _, c := range nearby {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[c.ID()]; dup {
			continue
		}
		seen[c.ID()] = struct{}{}

		if _, isBusy := busySet[c.ID()]; isBusy {
			continue
		}
		if criteria.OnlineOnly && !c.IsOnline() {
			continue
		}

		distance, err := criteria.Origin.DistanceTo(c.Position())
		if err != nil {
			return nil, err
		}
		if distance > criteria.RadiusMeters {
			continue
		}
		candidates = append(candidates, Candidate{Courier: c, DistanceMeters: distance})
	}

	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(a.DistanceMeters, b.DistanceMeters)
	})

	return candidates, nil
}

// CourierIDs returns the candidate ids in ranking order.
func CourierIDs(candidates []Candidate) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Courier.ID())
	}
	return ids
}
