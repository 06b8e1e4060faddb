package order

import (
	"errors"
	"fmt"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned for orders not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
	// ErrAssignmentAlreadyLinked is returned when an order already references a delivery assignment.
	ErrAssignmentAlreadyLinked = errors.New("order already has a delivery assignment")
)

// Order is the aggregate root for a customer's grocery order.
//
// Order follows these invariants:
//   - It has at least one item and its total equals the sum of item lines
//   - Its delivery address carries a valid geocoded point
//   - An assignment is linked only while the order is out for delivery,
//     and at most once
//   - Delivered is final
type Order struct {
	id            kernel.UUID
	userID        kernel.UUID
	items         []Item
	totalAmount   int64
	paymentMethod PaymentMethod
	isPaid        bool
	status        Status
	address       Address
	// assignmentID references the active DeliveryAssignment, nil until one is created.
	assignmentID *kernel.UUID
	createdAt    time.Time
	guard        guard.ConstructorGuard
}

// NewOrder creates a pending, unpaid order at checkout.
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []Item,
	paymentMethod PaymentMethod,
	address Address,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setItems(items),
		o.setPaymentMethod(paymentMethod),
		o.setAddress(address),
	); err != nil {
		return nil, err
	}
	return o, nil
}

// RestoreOrder rebuilds an order from persistence.
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []Item,
	paymentMethod PaymentMethod,
	isPaid bool,
	status Status,
	address Address,
	assignmentID *kernel.UUID,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		isPaid:    isPaid,
		createdAt: createdAt.UTC(),
		guard:     guard.NewConstructorGuard(),
	}
	var assignmentErr error
	if assignmentID != nil {
		assignmentErr = assignmentID.Validate()
		o.assignmentID = assignmentID
	}
	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setItems(items),
		o.setPaymentMethod(paymentMethod),
		o.setAddress(address),
		status.Validate(),
		assignmentErr,
	); err != nil {
		return nil, err
	}
	o.status = status
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) UserID() kernel.UUID { return o.userID }
func (o *Order) TotalAmount() int64 { return o.totalAmount }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) IsPaid() bool { return o.isPaid }
func (o *Order) Status() Status { return o.status }
func (o *Order) Address() Address { return o.address }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) Assignment() *kernel.UUID { return o.assignmentID }
func (o *Order) HasAssignment() bool { return o.assignmentID != nil }
func (o *Order) DeliveryLocation() kernel.GeoPoint { return o.address.Location() }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// ChangeStatus applies an admin status change.
func (o *Order) ChangeStatus(next Status) error {
	if err := o.status.ValidateChangeTo(next); err != nil {
		return err
	}
	o.status = next
	return nil
}

// NeedsAssignment reports whether a matcher run should happen for this order:
// it is out for delivery and no assignment was created yet. The link is never
// cleared, so an order whose broadcast expired is not matched again.
func (o *Order) NeedsAssignment() bool {
	return o.status == OutForDelivery && o.assignmentID == nil
}

// LinkAssignment records the delivery assignment created for this order.
func (o *Order) LinkAssignment(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}
	if o.assignmentID != nil {
		return ErrAssignmentAlreadyLinked
	}
	if o.status != OutForDelivery {
		return errs.NewTransitionIsInvalidErrorWithCause("order", o.status.String(), "assigned",
			fmt.Errorf("assignment requires status %s", OutForDelivery))
	}
	o.assignmentID = &assignmentID
	return nil
}

// MarkPaid sets the paid flag. It reports whether the flag changed, so webhook
// redelivery is a no-op.
func (o *Order) MarkPaid() bool {
	if o.isPaid {
		return false
	}
	o.isPaid = true
	return true
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user", err)
	}
	o.userID = userID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	var total int64
	for _, item := range items {
		if item.name == "" {
			return errs.NewValueIsInvalidError("item must be created via NewItem")
		}
		total += item.LineTotal()
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.totalAmount = total
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if method != CashOnDelivery && method != Online {
		return errs.NewValueIsInvalidError("payment method")
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setAddress(address Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}
