package commands

import (
	"context"
	"time"

	"grocery/internal/core/domain/model/order"
)

// CreateOrderCommandHandler handles checkout.
// Orders are stored pending and unpaid with no assignment; the total is
// computed from the item lines, never taken from the client.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, nil)
//	cmd, err := NewCreateOrderCommand(orderID, userID, items, "cod", address)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

// NewCreateOrderCommandHandler creates a checkout handler. A nil now uses
// time.Now for the creation timestamp.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, now func() time.Time) CreateOrderCommandHandler {
	if now == nil {
		now = time.Now
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		now:        now,
	}
}

// Handle builds the order aggregate and persists it with its items in one
// transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.UserID(), cmd.Items(), cmd.PaymentMethod(), cmd.Address(), h.now())
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

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
