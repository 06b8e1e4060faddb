package commands

import (
	"context"
)

// MarkOrderPaidCommandHandler sets the paid flag. Webhook redelivery for an
// order that is already paid changes nothing and is not an error.
type MarkOrderPaidCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewMarkOrderPaidCommandHandler creates the handler behind the payment webhook.
//
// Example:
//
//	handler := NewMarkOrderPaidCommandHandler(uowFactory)
//	cmd, _ := NewMarkOrderPaidCommand(orderID)
//	changed, err := handler.Handle(ctx, cmd)
func NewMarkOrderPaidCommandHandler(uowFactory OrderUoWFactory) MarkOrderPaidCommandHandler {
	return MarkOrderPaidCommandHandler{uowFactory: uowFactory}
}

// Handle reports whether this call flipped the flag.
func (h *MarkOrderPaidCommandHandler) Handle(ctx context.Context, cmd MarkOrderPaidCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	changed, err := uow.OrderRepository().MarkPaid(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return changed, nil
}
