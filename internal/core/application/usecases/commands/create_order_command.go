package commands

import (
	"errors"
	"fmt"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/core/domain/model/order"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItemInput is one cart line as submitted at checkout.
type OrderItemInput struct {
	Name      string
	UnitPrice int64
	Quantity  int
	Unit      string
	Image     string
}

// AddressInput is the delivery address as submitted at checkout, already geocoded.
type AddressInput struct {
	FullAddress string
	City        string
	State       string
	PostalCode  string
	Latitude    float64
	Longitude   float64
}

// CreateOrderCommand places a new order at checkout.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	userID        kernel.UUID
	items         []order.Item
	paymentMethod order.PaymentMethod
	address       order.Address

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand converts checkout input into validated domain values.
// All validation failures are joined into one error.
func NewCreateOrderCommand(
	orderID, userID kernel.UUID,
	items []OrderItemInput,
	paymentMethod string,
	address AddressInput,
) (CreateOrderCommand, error) {
	command := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setUserID(userID),
		command.setItems(items),
		command.setPaymentMethod(paymentMethod),
		command.setAddress(address),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return command, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c CreateOrderCommand) Address() order.Address {
	return c.address
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user", err)
	}

	c.userID = id
	return nil
}

func (c *CreateOrderCommand) setItems(inputs []OrderItemInput) error {
	if len(inputs) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	items := make([]order.Item, 0, len(inputs))
	var itemErrs []error
	for i, in := range inputs {
		item, err := order.NewItem(in.Name, in.UnitPrice, in.Quantity, in.Unit, in.Image)
		if err != nil {
			itemErrs = append(itemErrs, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	if len(itemErrs) > 0 {
		return errors.Join(itemErrs...)
	}

	c.items = items
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method string) error {
	pm, err := order.ParsePaymentMethod(method)
	if err != nil {
		return err
	}

	c.paymentMethod = pm
	return nil
}

func (c *CreateOrderCommand) setAddress(in AddressInput) error {
	location, err := kernel.NewGeoPoint(in.Latitude, in.Longitude)
	if err != nil {
		return err
	}

	address, err := order.NewAddress(in.FullAddress, in.City, in.State, in.PostalCode, location)
	if err != nil {
		return err
	}

	c.address = address
	return nil
}
