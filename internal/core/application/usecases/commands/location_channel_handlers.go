package commands

import (
	"context"

	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"
)

type counter interface {
	Inc()
}

// IdentifyCourierCommandHandler marks a courier online under a channel handle.
// Repeating it with a new handle simply overwrites the old one.
//
// Example:
//
//	handler := NewIdentifyCourierCommandHandler(uowFactory)
//	cmd, _ := NewIdentifyCourierCommand(courierID, "inbox-7f3a")
//	c, err := handler.Handle(ctx, cmd)
type IdentifyCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewIdentifyCourierCommandHandler(uowFactory CourierUoWFactory) IdentifyCourierCommandHandler {
	return IdentifyCourierCommandHandler{uowFactory: uowFactory}
}

func (h *IdentifyCourierCommandHandler) Handle(ctx context.Context, cmd IdentifyCourierCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updatePresence(ctx, h.uowFactory, cmd.CourierID(), func(c *courier.Courier) error {
		return c.Identify(cmd.Handle())
	})
}

// DisconnectCourierCommandHandler marks a courier offline. The last known
// position stays in the geo index.
type DisconnectCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewDisconnectCourierCommandHandler(uowFactory CourierUoWFactory) DisconnectCourierCommandHandler {
	return DisconnectCourierCommandHandler{uowFactory: uowFactory}
}

func (h *DisconnectCourierCommandHandler) Handle(ctx context.Context, cmd DisconnectCourierCommand) (*courier.Courier, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updatePresence(ctx, h.uowFactory, cmd.CourierID(), func(c *courier.Courier) error {
		c.Disconnect()
		return nil
	})
}

func updatePresence(
	ctx context.Context,
	uowFactory CourierUoWFactory,
	courierID kernel.UUID,
	apply func(c *courier.Courier) error,
) (*courier.Courier, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierRepo := uow.CourierRepository()
	c, err := courierRepo.Get(ctx, courierID)
	if err != nil {
		return nil, err
	}

	if err = apply(c); err != nil {
		return nil, err
	}

	if err = courierRepo.UpdatePresence(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// ReportLocationCommandHandler overwrites a courier's position.
//
// The write is a single statement outside an explicit transaction: reports
// are fire-and-forget and the last one received wins.
type ReportLocationCommandHandler struct {
	uowFactory CourierUoWFactory
	updates    counter
}

func NewReportLocationCommandHandler(uowFactory CourierUoWFactory, updates counter) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{uowFactory: uowFactory, updates: updates}
}

func (h *ReportLocationCommandHandler) Handle(ctx context.Context, cmd ReportLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if err := h.uowFactory.Create().CourierRepository().UpdatePosition(ctx, cmd.CourierID(), cmd.Position()); err != nil {
		return err
	}

	if h.updates != nil {
		h.updates.Inc()
	}
	return nil
}

// DisconnectIdleCouriersCommandHandler applies the disconnect transition to
// every online courier whose channel has gone silent. It is what a dropped
// connection turns into when the device never published courier.disconnect.
type DisconnectIdleCouriersCommandHandler struct {
	uowFactory CourierUoWFactory
	timeouts   counter
}

func NewDisconnectIdleCouriersCommandHandler(uowFactory CourierUoWFactory, timeouts counter) DisconnectIdleCouriersCommandHandler {
	return DisconnectIdleCouriersCommandHandler{uowFactory: uowFactory, timeouts: timeouts}
}

// Handle returns the number of couriers taken offline. The sweep is one
// conditional UPDATE, so it needs no transaction of its own.
func (h *DisconnectIdleCouriersCommandHandler) Handle(ctx context.Context, cmd DisconnectIdleCouriersCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	n, err := h.uowFactory.Create().CourierRepository().DisconnectIdle(ctx, cmd.Cutoff())
	if err != nil {
		return 0, err
	}

	if h.timeouts != nil {
		for range n {
			h.timeouts.Inc()
		}
	}
	return n, nil
}
