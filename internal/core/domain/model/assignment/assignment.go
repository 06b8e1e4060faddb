package assignment

import (
	"errors"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var (
	ErrAssignmentIsNotConstructed = errors.New("DeliveryAssignment must be created via NewAssignment constructor")
	// ErrAlreadyAccepted is the outcome for a courier that lost the acceptance race.
	ErrAlreadyAccepted = errors.New("assignment already accepted")
	// ErrCourierNotBroadcasted is returned when a courier accepts a job it was never offered.
	ErrCourierNotBroadcasted = errors.New("courier was not a broadcast recipient")
	// ErrCourierIsBusy is returned when a courier already delivering another order accepts.
	ErrCourierIsBusy = errors.New("courier already holds an accepted assignment")
	// ErrOrderNotOutForDelivery is returned when the offered order was delivered
	// or moved back to pending before the courier accepted.
	ErrOrderNotOutForDelivery = errors.New("order is not out for delivery")
)

// DeliveryAssignment is the offer of one order to a set of candidate couriers,
// and, once a courier accepts, the record of who delivers it.
type DeliveryAssignment struct {
	id            kernel.UUID
	orderID       kernel.UUID
	broadcastedTo []kernel.UUID
	status        Status
	assignedTo    *kernel.UUID
	createdAt     time.Time
	acceptedAt    *time.Time
	guard         guard.ConstructorGuard
}

// NewAssignment creates a broadcasted assignment. Candidates keep their order
// (nearest first); duplicates are dropped.
func NewAssignment(id, orderID kernel.UUID, candidates []kernel.UUID, now time.Time) (*DeliveryAssignment, error) {
	a := &DeliveryAssignment{
		status:    Broadcasted,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setBroadcastedTo(candidates),
	); err != nil {
		return nil, err
	}
	return a, nil
}

// RestoreAssignment rebuilds an assignment from persistence.
func RestoreAssignment(
	id, orderID kernel.UUID,
	broadcastedTo []kernel.UUID,
	status Status,
	assignedTo *kernel.UUID,
	createdAt time.Time,
	acceptedAt *time.Time,
) (*DeliveryAssignment, error) {
	a := &DeliveryAssignment{
		createdAt:  createdAt.UTC(),
		acceptedAt: acceptedAt,
		guard:      guard.NewConstructorGuard(),
	}
	var assignedErr error
	if assignedTo != nil {
		assignedErr = assignedTo.Validate()
	}
	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setBroadcastedTo(broadcastedTo),
		status.Validate(),
		status.ValidateCanHaveCourier(assignedTo != nil),
		assignedErr,
	); err != nil {
		return nil, err
	}
	a.status = status
	a.assignedTo = assignedTo
	return a, nil
}

func (a *DeliveryAssignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a *DeliveryAssignment) ID() kernel.UUID {
	return a.id
}

func (a *DeliveryAssignment) OrderID() kernel.UUID {
	return a.orderID
}

// BroadcastedTo returns a copy of the candidate list, nearest first.
func (a *DeliveryAssignment) BroadcastedTo() []kernel.UUID {
	out := make([]kernel.UUID, len(a.broadcastedTo))
	copy(out, a.broadcastedTo)
	return out
}

func (a *DeliveryAssignment) Status() Status {
	return a.status
}

// AssignedTo returns the accepting courier, nil before acceptance.
func (a *DeliveryAssignment) AssignedTo() *kernel.UUID {
	return a.assignedTo
}

func (a *DeliveryAssignment) CreatedAt() time.Time {
	return a.createdAt
}

func (a *DeliveryAssignment) AcceptedAt() *time.Time {
	return a.acceptedAt
}

// WasBroadcastTo reports whether courierID was one of the candidates.
func (a *DeliveryAssignment) WasBroadcastTo(courierID kernel.UUID) bool {
	for _, id := range a.broadcastedTo {
		if id.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// Accept hands the assignment to courierID.
func (a *DeliveryAssignment) Accept(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	next, err := a.status.Accept()
	if err != nil {
		return err
	}
	if !a.WasBroadcastTo(courierID) {
		return errs.NewTransitionIsInvalidErrorWithCause("assignment", a.status.String(), next.String(), ErrCourierNotBroadcasted)
	}
	accepted := now.UTC()
	a.status = next
	a.assignedTo = &courierID
	a.acceptedAt = &accepted
	return nil
}

// Complete closes an accepted assignment once the order is delivered.
func (a *DeliveryAssignment) Complete() error {
	next, err := a.status.Complete()
	if err != nil {
		return err
	}
	a.status = next
	return nil
}

// Expire retires a broadcast nobody accepted.
func (a *DeliveryAssignment) Expire() error {
	next, err := a.status.Expire()
	if err != nil {
		return err
	}
	a.status = next
	return nil
}

func (a *DeliveryAssignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *DeliveryAssignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order", err)
	}
	a.orderID = orderID
	return nil
}

func (a *DeliveryAssignment) setBroadcastedTo(candidates []kernel.UUID) error {
	unique := make([]kernel.UUID, 0, len(candidates))
	seen := make(map[kernel.UUID]struct{}, len(candidates))
	for _, id := range candidates {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return errs.NewValueIsRequiredError("broadcast candidates")
	}
	a.broadcastedTo = unique
	return nil
}
