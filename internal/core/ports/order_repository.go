// Package ports defines the contracts between the delivery-assignment core and
// its infrastructure: repositories, the geo index, the unit of work and the
// outbound broadcast channel.
package ports

import (
	"context"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
//
// Writes are column-scoped so concurrent requests touching different facets of
// the same order (status, paid flag, assignment link) never overwrite each other.
type OrderRepository interface {
	// Add persists a new order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items.
	// Returns errs.ErrObjectNotFound if the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus persists the aggregate's current status only, provided the
	// stored status still equals from.
	// Returns errs.ErrStateIsStale if another writer changed the status first,
	// errs.ErrObjectNotFound if the order does not exist.
	UpdateStatus(ctx context.Context, aggregate *order.Order, from order.Status) error

	// LinkAssignment stores the aggregate's assignment reference, but only if
	// the stored order has none yet and is out for delivery. Reports false
	// otherwise.
	LinkAssignment(ctx context.Context, aggregate *order.Order) (bool, error)

	// MarkPaid sets the paid flag. Reports false if it was already set.
	// Returns errs.ErrObjectNotFound if the order does not exist.
	MarkPaid(ctx context.Context, id kernel.UUID) (bool, error)
}
