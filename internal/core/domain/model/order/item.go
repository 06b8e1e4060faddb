package order

import (
	"errors"
	"strings"

	"grocery/internal/pkg/errs"
)

const maxItemQuantity = 1000

// Item is one line of an order. Prices are in minor currency units (paise).
type Item struct {
	name      string
	unitPrice int64
	quantity  int
	unit      string
	image     string
}

func NewItem(name string, unitPrice int64, quantity int, unit, image string) (Item, error) {
	item := Item{
		name:  strings.TrimSpace(name),
		unit:  strings.TrimSpace(unit),
		image: image,
	}
	var nameErr, priceErr, qtyErr error
	if item.name == "" {
		nameErr = errs.NewValueIsRequiredError("item name")
	}
	if unitPrice < 0 {
		priceErr = errs.NewValueIsOutOfRangeError("unit price", unitPrice, 0, "unbounded")
	}
	if quantity < 1 || quantity > maxItemQuantity {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, maxItemQuantity)
	}
	if err := errors.Join(nameErr, priceErr, qtyErr); err != nil {
		return Item{}, err
	}
	item.unitPrice = unitPrice
	item.quantity = quantity
	return item, nil
}

func (i Item) Name() string { return i.name }
func (i Item) UnitPrice() int64 { return i.unitPrice }
func (i Item) Quantity() int { return i.quantity }
func (i Item) Unit() string { return i.unit }
func (i Item) Image() string { return i.image }

// LineTotal is unit price times quantity.
func (i Item) LineTotal() int64 {
	return i.unitPrice * int64(i.quantity)
}

// PaymentMethod is how the customer settles the order.
type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "cod"
	Online         PaymentMethod = "online"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(s))) {
	case CashOnDelivery:
		return CashOnDelivery, nil
	case Online:
		return Online, nil
	default:
		return "", errs.NewValueIsInvalidError("payment method")
	}
}
