package courier

import (
	"errors"
	"strings"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/errs"
	"grocery/internal/pkg/guard"
)

// Role is the user role carried by couriers in the shared users table.
const Role = "deliveryBoy"

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrMobileIsRequired        = errs.NewValueIsRequiredError("mobile")
	ErrHandleIsRequired        = errs.NewValueIsRequiredError("channel handle")
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is a user with the delivery role. Besides identity and contact data
// it carries its live position and its presence on the location channel.
//
// Position is kept after disconnect, so a courier that drops off the channel
// briefly still shows up in proximity searches.
type Courier struct {
	id       kernel.UUID
	name     string
	mobile   string
	position kernel.GeoPoint
	online   bool
	// handle identifies the courier's current channel connection; empty when offline.
	handle string
	guard  guard.ConstructorGuard
}

// NewCourier registers an offline courier at the given starting position.
func NewCourier(id kernel.UUID, name, mobile string, position kernel.GeoPoint) (*Courier, error) {
	c := &Courier{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setMobile(mobile),
		c.setPosition(position),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier rebuilds a courier from persistence.
func RestoreCourier(
	id kernel.UUID,
	name string,
	mobile string,
	position kernel.GeoPoint,
	online bool,
	handle string,
) (*Courier, error) {
	c, err := NewCourier(id, name, mobile, position)
	if err != nil {
		return nil, err
	}
	c.online = online
	c.handle = handle
	return c, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Mobile() string {
	return c.mobile
}

// Position returns the last reported location.
func (c *Courier) Position() kernel.GeoPoint {
	return c.position
}

func (c *Courier) IsOnline() bool {
	return c.online
}

// Handle returns the channel handle of the current connection.
func (c *Courier) Handle() string {
	return c.handle
}

// Reachable reports whether a broadcast pushed now could reach the courier.
func (c *Courier) Reachable() bool {
	return c.online && c.handle != ""
}

// Identify binds a channel connection. Repeated calls overwrite the handle.
func (c *Courier) Identify(handle string) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return ErrHandleIsRequired
	}
	c.online = true
	c.handle = handle
	return nil
}

// Disconnect marks the courier offline; the position is retained.
func (c *Courier) Disconnect() {
	c.online = false
	c.handle = ""
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setMobile(mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return ErrMobileIsRequired
	}
	c.mobile = mobile
	return nil
}

func (c *Courier) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}
	c.position = position
	return nil
}
