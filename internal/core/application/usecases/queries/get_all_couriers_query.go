package queries

import (
	"errors"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/guard"
)

var ErrGetAllCouriersQueryIsNotConstructed = errors.New(
	"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
)

// GetAllCouriersQuery lists every courier with position and presence.
//
// Example:
//
//	query := NewGetAllCouriersQuery()
//	couriers, err := NewGetAllCouriersQueryHandler(db).Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
type GetAllCouriersQuery struct {
	guard guard.ConstructorGuard
}

func NewGetAllCouriersQuery() GetAllCouriersQuery {
	return GetAllCouriersQuery{guard: guard.NewConstructorGuard()}
}

func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

// GetAllCouriersQueryResponse is one courier in the read model.
type GetAllCouriersQueryResponse struct {
	ID        kernel.UUID
	Name      string
	Mobile    string
	Latitude  float64
	Longitude float64
	IsOnline  bool
	// Busy is set when the courier holds an accepted assignment.
	Busy bool
}
