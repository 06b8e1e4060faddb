package commands

import (
	"context"

	"grocery/internal/core/domain/model/courier"
)

// CreateCourierCommandHandler handles courier registration.
// The courier starts offline at the given position and becomes matchable
// right away; going online needs an identify on the location channel.
//
// Example:
//
//	handler := NewCreateCourierCommandHandler(uowFactory)
//	cmd, _ := NewCreateCourierCommand(kernel.NewUUID(), "Ravi", "+91-9000000000", 12.97, 77.59)
//
//	c, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("courier registration failed: %w", err)
//	}
type CreateCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewCreateCourierCommandHandler creates a handler for courier registration.
// Requires a CourierUoWFactory for transactional persistence operations.
func NewCreateCourierCommandHandler(uowFactory CourierUoWFactory) CreateCourierCommandHandler {
	return CreateCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle creates the courier and returns it as stored.
// A duplicate id surfaces as the repository's conflict error; nothing is
// written on failure.
func (h *CreateCourierCommandHandler) Handle(ctx context.Context, cmd CreateCourierCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	courierEntity, err := courier.NewCourier(cmd.CourierID(), cmd.Name(), cmd.Mobile(), cmd.Position())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, courierEntity); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return courierEntity, nil
}
