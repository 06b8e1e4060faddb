// Package natsbus pushes broadcast offers to couriers over NATS. Each courier
// connection listens on its own subject, courier.broadcast.<handle>.
package natsbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"grocery/internal/core/ports"
	"grocery/internal/pkg/errs"

	"github.com/nats-io/nats.go"
)

// BroadcastSubjectPrefix is followed by the connection handle.
const BroadcastSubjectPrefix = "courier.broadcast."

// BroadcastSubject returns the subject a connection with the given handle reads offers from.
func BroadcastSubject(handle string) string {
	return BroadcastSubjectPrefix + handle
}

// Publisher implements ports.BroadcastPublisher.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(conn *nats.Conn) *Publisher {
	return &Publisher{conn: conn}
}

func (p *Publisher) Publish(ctx context.Context, handle string, broadcast ports.Broadcast) error {
	if err := ValidateHandle(handle); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(broadcast)
	if err != nil {
		return fmt.Errorf("encode broadcast: %w", err)
	}

	if err = p.conn.Publish(BroadcastSubject(handle), data); err != nil {
		return errs.NewInfrastructureError("publish broadcast", err)
	}
	return nil
}

// ValidateHandle rejects handles that are not a single NATS subject token.
func ValidateHandle(handle string) error {
	if handle == "" {
		return errs.NewValueIsRequiredError("channel handle")
	}
	if strings.ContainsAny(handle, ".*> \t\r\n") {
		return errs.NewValueIsInvalidErrorWithCause("channel handle",
			fmt.Errorf("%q is not a single subject token", handle))
	}
	return nil
}
