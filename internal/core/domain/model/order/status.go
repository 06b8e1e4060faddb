package order

import (
	"fmt"
	"strings"

	"grocery/internal/pkg/errs"
)

// Status is the fulfilment state of an order.
//
//	Pending ──> OutForDelivery ──> Delivered
//	   ^              │
//	   └──────────────┘
//
// Delivered is final. Re-applying the current status is a no-op.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	OutForDelivery
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "unknown",
		Pending:        "pending",
		OutForDelivery: "out-for-delivery",
		Delivered:      "delivered",
	}
}

// ParseStatus maps the wire representation to a Status.
// The legacy storefront spelling "out of delivery" is accepted as an alias.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "out of delivery" {
		return OutForDelivery, nil
	}
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not one of pending, out-for-delivery, delivered", s))
}

func (s Status) Validate() error {
	if s != Pending && s != OutForDelivery && s != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// ValidateChangeTo checks whether an order may move from s to next.
func (s Status) ValidateChangeTo(next Status) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if s == Delivered && next != Delivered {
		return errs.NewTransitionIsInvalidError("order", s.String(), next.String())
	}
	return nil
}
