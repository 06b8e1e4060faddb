package queries

import (
	"errors"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/guard"
)

var ErrGetOpenAssignmentsQueryIsNotConstructed = errors.New(
	"GetOpenAssignmentsQuery must be created via NewGetOpenAssignmentsQuery constructor",
)

// GetOpenAssignmentsQuery lists broadcasts still open to a courier. Couriers
// that were offline when the push went out use it to catch up.
type GetOpenAssignmentsQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOpenAssignmentsQuery(courierID kernel.UUID) (GetOpenAssignmentsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetOpenAssignmentsQuery{}, err
	}
	return GetOpenAssignmentsQuery{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOpenAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenAssignmentsQueryIsNotConstructed)
}

func (q GetOpenAssignmentsQuery) CourierID() kernel.UUID {
	return q.courierID
}

// GetOpenAssignmentsQueryResponse is one open offer with its order summary.
type GetOpenAssignmentsQueryResponse struct {
	AssignmentID   kernel.UUID
	OrderID        kernel.UUID
	TotalAmount    int64
	PaymentMethod  string
	FullAddress    string
	City           string
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
	CreatedAt      time.Time
}
