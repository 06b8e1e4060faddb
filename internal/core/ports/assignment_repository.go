package ports

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/assignment"
	"grocery/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for delivery assignments.
type AssignmentRepository interface {
	// Add persists a new assignment. At most one assignment may exist per order;
	// a second insert for the same order returns errs.ErrStateIsStale.
	Add(ctx context.Context, aggregate *assignment.DeliveryAssignment) error

	// Get retrieves an assignment by id.
	// Returns errs.ErrObjectNotFound if it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*assignment.DeliveryAssignment, error)

	// GetByOrder retrieves the assignment created for an order.
	// Returns errs.ErrObjectNotFound if the order has none.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*assignment.DeliveryAssignment, error)

	// BusyCourierIDs returns the distinct couriers that hold an assignment
	// whose status keeps them busy.
	BusyCourierIDs(ctx context.Context) ([]kernel.UUID, error)

	// IsCourierBusy reports whether one courier holds such an assignment.
	IsCourierBusy(ctx context.Context, courierID kernel.UUID) (bool, error)

	// Accept stores an accepted aggregate with a compare-and-set: the stored
	// row must still be broadcasted and list the courier as a recipient.
	// Returns errs.ErrStateIsStale when the precondition fails.
	Accept(ctx context.Context, aggregate *assignment.DeliveryAssignment) error

	// Transition stores the aggregate's status if the stored status still
	// equals from. Returns errs.ErrStateIsStale otherwise.
	Transition(ctx context.Context, aggregate *assignment.DeliveryAssignment, from assignment.Status) error

	// ListStaleBroadcasted returns up to limit broadcasted assignments created
	// before the cutoff, oldest first.
	ListStaleBroadcasted(ctx context.Context, cutoff time.Time, limit int) ([]*assignment.DeliveryAssignment, error)
}
