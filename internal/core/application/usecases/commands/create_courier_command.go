package commands

import (
	"errors"
	"strings"

	"grocery/internal/core/domain/model/kernel"
	"grocery/internal/pkg/guard"
)

var (
	ErrCreateCourierCommandIsNotConstructed = errors.New(
		"CreateCourierCommand must be created via NewCreateCourierCommand constructor",
	)
	ErrNameIsRequired   = errors.New("name is required")
	ErrMobileIsRequired = errors.New("mobile is required")
)

// CreateCourierCommand registers a user with the delivery role.
//
// Example:
//
//	cmd, err := NewCreateCourierCommand(kernel.NewUUID(), "Ravi", "+91-9000000000", 12.97, 77.59)
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create courier: %w", err)
//	}
type CreateCourierCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	name      string
	mobile    string
	position  kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCreateCourierCommand validates the id, contact details and starting position.
func NewCreateCourierCommand(
	courierID kernel.UUID,
	name, mobile string,
	latitude, longitude float64,
) (CreateCourierCommand, error) {
	command := CreateCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	position, posErr := kernel.NewGeoPoint(latitude, longitude)
	if err := errors.Join(
		command.setCourierID(courierID),
		command.setName(name),
		command.setMobile(mobile),
		posErr,
	); err != nil {
		return CreateCourierCommand{}, err
	}
	command.position = position

	return command, nil
}

func (c CreateCourierCommand) Validate() error {
	return c.guard.Validate(ErrCreateCourierCommandIsNotConstructed)
}

func (c CreateCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c CreateCourierCommand) Name() string {
	return c.name
}

func (c CreateCourierCommand) Mobile() string {
	return c.mobile
}

func (c CreateCourierCommand) Position() kernel.GeoPoint {
	return c.position
}

func (c *CreateCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.courierID = id
	return nil
}

func (c *CreateCourierCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateCourierCommand) setMobile(mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return ErrMobileIsRequired
	}

	c.mobile = mobile
	return nil
}
