package queries

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/guard"
)

var ErrFindCandidatesQueryIsNotConstructed = errors.New(
	"FindCandidatesQuery must be created via NewFindCandidatesQuery constructor",
)

// FindCandidatesQuery previews which couriers a matcher run for the order
// would broadcast to right now. It changes nothing.
type FindCandidatesQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewFindCandidatesQuery(orderID kernel.UUID) (FindCandidatesQuery, error) {
	if err := orderID.Validate(); err != nil {
		return FindCandidatesQuery{}, err
	}
	return FindCandidatesQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q FindCandidatesQuery) Validate() error {
	return q.guard.Validate(ErrFindCandidatesQueryIsNotConstructed)
}

func (q FindCandidatesQuery) OrderID() kernel.UUID {
	return q.orderID
}

// CandidateResponse is one idle courier in range of the order.
type CandidateResponse struct {
	ID             kernel.UUID
	Name           string
	Mobile         string
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
}
