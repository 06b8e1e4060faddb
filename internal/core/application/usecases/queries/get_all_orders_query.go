package queries

import (
	"errors"

	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

const (
	DefaultOrdersLimit = 100
	MaxOrdersLimit     = 1000
)

var ErrGetAllOrdersQueryIsNotConstructed = errors.New(
	"GetAllOrdersQuery must be created via NewGetAllOrdersQuery constructor",
)

// GetAllOrdersQuery lists orders for the admin view, newest first.
type GetAllOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetAllOrdersQuery uses DefaultOrdersLimit when limit is zero.
func NewGetAllOrdersQuery(limit int) (GetAllOrdersQuery, error) {
	if limit == 0 {
		limit = DefaultOrdersLimit
	}
	if limit < 1 || limit > MaxOrdersLimit {
		return GetAllOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxOrdersLimit)
	}
	return GetAllOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetAllOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllOrdersQueryIsNotConstructed)
}

func (q GetAllOrdersQuery) Limit() int {
	return q.limit
}
