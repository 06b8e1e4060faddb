package queries

import (
	"context"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/services"
	"grocery/internal/pkg/errs"

	"gorm.io/gorm"
)

type candidateFinder interface {
	Find(ctx context.Context, origin kernel.GeoPoint) ([]services.Candidate, error)
}

type FindCandidatesQueryHandler struct {
	db     *gorm.DB
	finder candidateFinder
}

func NewFindCandidatesQueryHandler(db *gorm.DB, finder candidateFinder) FindCandidatesQueryHandler {
	return FindCandidatesQueryHandler{db: db, finder: finder}
}

// Handle returns candidates nearest first; an empty slice when nobody is in range.
func (h FindCandidatesQueryHandler) Handle(ctx context.Context, query FindCandidatesQuery) ([]CandidateResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var location struct {
		Latitude  float64
		Longitude float64
	}
	result := h.db.WithContext(ctx).Raw(`
		SELECT address_latitude AS latitude, address_longitude AS longitude
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&location)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	origin, err := kernel.NewGeoPoint(location.Latitude, location.Longitude)
	if err != nil {
		return nil, err
	}

	candidates, err := h.finder.Find(ctx, origin)
	if err != nil {
		return nil, err
	}

	return CandidateResponses(candidates), nil
}

// CandidateResponses flattens matcher output into the read model.
func CandidateResponses(candidates []services.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, CandidateResponse{
			ID:             c.Courier.ID(),
			Name:           c.Courier.Name(),
			Mobile:         c.Courier.Mobile(),
			Latitude:       c.Courier.Position().Latitude(),
			Longitude:      c.Courier.Position().Longitude(),
			DistanceMeters: c.DistanceMeters,
		})
	}
	return out
}
