package commands

import (
	"context"

	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/services"
	"grocery/internal/pkg/retry"
)

// MatchSettings configures the courier search.
type MatchSettings struct {
	RadiusMeters float64
	OnlineOnly   bool
}

// CandidateFinder composes the geo index query, the busy-courier lookup and
// the CourierMatcher. Lookups run outside any transaction so a failed attempt
// can be retried.
type CandidateFinder struct {
	uowFactory MatchUoWFactory
	runner     *retry.Runner
	settings   MatchSettings
	matcher    services.CourierMatcher
}

func NewCandidateFinder(uowFactory MatchUoWFactory, runner *retry.Runner, settings MatchSettings) *CandidateFinder {
	if settings.RadiusMeters == 0 {
		settings.RadiusMeters = services.DefaultRadiusMeters
	}
	return &CandidateFinder{
		uowFactory: uowFactory,
		runner:     runner,
		settings:   settings,
		matcher:    services.NewCourierMatcher(),
	}
}

// Find returns idle couriers within the configured radius of origin, nearest first.
func (f *CandidateFinder) Find(ctx context.Context, origin kernel.GeoPoint) ([]services.Candidate, error) {
	return retry.Value(ctx, f.runner, "find candidates", func(ctx context.Context) ([]services.Candidate, error) {
		uow := f.uowFactory.Create()

		nearby, err := uow.GeoIndex().Nearest(ctx, origin, f.settings.RadiusMeters, courier.Role, f.settings.OnlineOnly)
		if err != nil {
			return nil, err
		}

		busy, err := uow.AssignmentRepository().BusyCourierIDs(ctx)
		if err != nil {
			return nil, err
		}

		couriers := make([]*courier.Courier, 0, len(nearby))
		for _, n := range nearby {
			couriers = append(couriers, n.Courier)
		}

		return f.matcher.Match(services.MatchCriteria{
			Origin:       origin,
			RadiusMeters: f.settings.RadiusMeters,
			OnlineOnly:   f.settings.OnlineOnly,
		}, couriers, busy)
	})
}
