package http

import (
	"encoding/json"
	"io"
	"net/http"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	stripeSignatureHeader = "Stripe-Signature"
	maxWebhookBodyBytes   = 65536
)

type webhookAck struct {
	Received bool `json:"received"`
}

// StripeWebhook handles POST /api/v1/payments/stripe/webhook.
//
// Only checkout.session.completed changes state: it marks the order named in
// metadata.orderId as paid. Redelivered events are acknowledged without a
// second write. Every other event type is acknowledged and ignored.
func (s *Server) StripeWebhook(ctx echo.Context) error {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxWebhookBodyBytes))
	if err != nil {
		return badRequest(ctx, "Unreadable webhook body")
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		ctx.Request().Header.Get(stripeSignatureHeader),
		s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return badRequest(ctx, "Webhook signature verification failed")
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		return ctx.JSON(http.StatusOK, webhookAck{Received: true})
	}

	var session stripe.CheckoutSession
	if err = json.Unmarshal(event.Data.Raw, &session); err != nil {
		return badRequest(ctx, "Malformed checkout session")
	}

	orderID, err := kernel.UUIDFromString(session.Metadata["orderId"])
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewMarkOrderPaidCommand(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	changed, err := s.h.MarkOrderPaid.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}
	if !changed {
		ctx.Logger().Infof("stripe event %s: order %s already paid", event.ID, orderID)
	}

	return ctx.JSON(http.StatusOK, webhookAck{Received: true})
}
