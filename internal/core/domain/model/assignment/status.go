package assignment

import (
	"fmt"

	"grocery/internal/pkg/errs"
)

// Status is the lifecycle state of a DeliveryAssignment.
//
//	Broadcasted ──┬──> Accepted ──> Completed
//	              │
//	              └──> Expired
//
// Completed and Expired are terminal. Transitions never go backwards.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Broadcasted
	Accepted
	Completed
	Expired
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "unknown",
		Broadcasted: "broadcasted",
		Accepted:    "accepted",
		Completed:   "completed",
		Expired:     "expired",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) Validate() error {
	if s < Broadcasted || s > Expired {
		return errs.NewValueIsInvalidErrorWithCause("assignment status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Expired
}

// HoldsCourier reports whether an assignment in this status keeps its courier
// busy. Only accepted, not yet completed work does; a broadcast still open to
// several couriers and expired or completed assignments do not.
func (s Status) HoldsCourier() bool {
	return s == Accepted
}

// Accept transitions Broadcasted -> Accepted.
func (s Status) Accept() (Status, error) {
	switch s {
	case Broadcasted:
		return Accepted, nil
	case Accepted, Completed:
		return 0, errs.NewTransitionIsInvalidErrorWithCause("assignment", s.String(), Accepted.String(), ErrAlreadyAccepted)
	default:
		return 0, errs.NewTransitionIsInvalidError("assignment", s.String(), Accepted.String())
	}
}

// Complete transitions Accepted -> Completed.
func (s Status) Complete() (Status, error) {
	if s != Accepted {
		return 0, errs.NewTransitionIsInvalidError("assignment", s.String(), Completed.String())
	}
	return Completed, nil
}

// Expire transitions Broadcasted -> Expired.
func (s Status) Expire() (Status, error) {
	if s != Broadcasted {
		return 0, errs.NewTransitionIsInvalidError("assignment", s.String(), Expired.String())
	}
	return Expired, nil
}

// ValidateCanHaveCourier checks consistency between status and the assigned courier.
func (s Status) ValidateCanHaveCourier(assigned bool) error {
	if assigned && s != Accepted && s != Completed {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment status",
			fmt.Errorf("%s is not a valid status to have an assigned courier", s),
		)
	}
	if !assigned && (s == Accepted || s == Completed) {
		return errs.NewValueIsInvalidErrorWithCause(
			"assignment status",
			fmt.Errorf("%s requires an assigned courier", s),
		)
	}
	return nil
}
