package commands

import (
	"errors"
	"strings"
	"time"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

var (
	ErrIdentifyCourierCommandIsNotConstructed = errors.New(
		"IdentifyCourierCommand must be created via NewIdentifyCourierCommand constructor",
	)
	ErrReportLocationCommandIsNotConstructed = errors.New(
		"ReportLocationCommand must be created via NewReportLocationCommand constructor",
	)
	ErrDisconnectCourierCommandIsNotConstructed = errors.New(
		"DisconnectCourierCommand must be created via NewDisconnectCourierCommand constructor",
	)
	ErrDisconnectIdleCouriersCommandIsNotConstructed = errors.New(
		"DisconnectIdleCouriersCommand must be created via NewDisconnectIdleCouriersCommand constructor",
	)
	ErrHandleIsRequired = errors.New("channel handle is required")
)

// IdentifyCourierCommand binds a live channel connection to a courier.
type IdentifyCourierCommand struct {
	courierID kernel.UUID
	handle    string

	guard guard.ConstructorGuard
}

func NewIdentifyCourierCommand(courierID kernel.UUID, handle string) (IdentifyCourierCommand, error) {
	handle = strings.TrimSpace(handle)
	var handleErr error
	if handle == "" {
		handleErr = ErrHandleIsRequired
	}
	if err := errors.Join(courierID.Validate(), handleErr); err != nil {
		return IdentifyCourierCommand{}, err
	}
	return IdentifyCourierCommand{courierID: courierID, handle: handle, guard: guard.NewConstructorGuard()}, nil
}

func (c IdentifyCourierCommand) Validate() error {
	return c.guard.Validate(ErrIdentifyCourierCommandIsNotConstructed)
}

func (c IdentifyCourierCommand) CourierID() kernel.UUID { return c.courierID }

func (c IdentifyCourierCommand) Handle() string { return c.handle }

// ReportLocationCommand carries one live position report.
type ReportLocationCommand struct {
	courierID kernel.UUID
	position  kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewReportLocationCommand(courierID kernel.UUID, latitude, longitude float64) (ReportLocationCommand, error) {
	position, posErr := kernel.NewGeoPoint(latitude, longitude)
	if err := errors.Join(courierID.Validate(), posErr); err != nil {
		return ReportLocationCommand{}, err
	}
	return ReportLocationCommand{courierID: courierID, position: position, guard: guard.NewConstructorGuard()}, nil
}

func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

func (c ReportLocationCommand) CourierID() kernel.UUID { return c.courierID }

func (c ReportLocationCommand) Position() kernel.GeoPoint { return c.position }

// DisconnectCourierCommand is fired when a courier's connection goes away.
type DisconnectCourierCommand struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

func NewDisconnectCourierCommand(courierID kernel.UUID) (DisconnectCourierCommand, error) {
	if err := courierID.Validate(); err != nil {
		return DisconnectCourierCommand{}, err
	}
	return DisconnectCourierCommand{courierID: courierID, guard: guard.NewConstructorGuard()}, nil
}

func (c DisconnectCourierCommand) Validate() error {
	return c.guard.Validate(ErrDisconnectCourierCommandIsNotConstructed)
}

func (c DisconnectCourierCommand) CourierID() kernel.UUID { return c.courierID }

// DisconnectIdleCouriersCommand stands in for the teardown event of channel
// connections that died without saying goodbye.
type DisconnectIdleCouriersCommand struct {
	cutoff time.Time

	guard guard.ConstructorGuard
}

// NewDisconnectIdleCouriersCommand creates a sweep over couriers last seen
// before cutoff.
//
// Example:
//
//	cmd, err := commands.NewDisconnectIdleCouriersCommand(time.Now().Add(-2 * time.Minute))
func NewDisconnectIdleCouriersCommand(cutoff time.Time) (DisconnectIdleCouriersCommand, error) {
	if cutoff.IsZero() {
		return DisconnectIdleCouriersCommand{}, errs.NewValueIsRequiredError("cutoff")
	}
	return DisconnectIdleCouriersCommand{cutoff: cutoff, guard: guard.NewConstructorGuard()}, nil
}

func (c DisconnectIdleCouriersCommand) Validate() error {
	return c.guard.Validate(ErrDisconnectIdleCouriersCommandIsNotConstructed)
}

func (c DisconnectIdleCouriersCommand) Cutoff() time.Time { return c.cutoff }
