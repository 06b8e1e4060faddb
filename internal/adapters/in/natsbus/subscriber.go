// Package natsbus is the inbound side of the location channel. Courier
// devices publish identify, location and disconnect messages; a queue group
// spreads them over service instances.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"grocery/internal/core/application/usecases/commands"
	"grocery/internal/core/domain/model/courier"
	"grocery/internal/core/domain/model/kernel"

	"github.com/nats-io/nats.go"
)

const (
	IdentifySubject   = "courier.identify"
	LocationSubject   = "courier.location"
	DisconnectSubject = "courier.disconnect"

	DefaultQueueGroup = "delivery-core"
)

type identifyHandler interface {
	Handle(ctx context.Context, cmd commands.IdentifyCourierCommand) (*courier.Courier, error)
}

type locationHandler interface {
	Handle(ctx context.Context, cmd commands.ReportLocationCommand) error
}

type disconnectHandler interface {
	Handle(ctx context.Context, cmd commands.DisconnectCourierCommand) (*courier.Courier, error)
}

// IdentifyMessage binds a courier to the connection handle it listens on.
type IdentifyMessage struct {
	CourierID string `json:"courierId"`
	Handle    string `json:"handle"`
}

type LocationMessage struct {
	CourierID string  `json:"courierId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type DisconnectMessage struct {
	CourierID string `json:"courierId"`
}

// Ack is the reply to identify and disconnect requests.
type Ack struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Subscriber routes channel messages to the command handlers.
type Subscriber struct {
	conn       *nats.Conn
	queue      string
	timeout    time.Duration
	identify   identifyHandler
	location   locationHandler
	disconnect disconnectHandler
	logger     *slog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

func NewSubscriber(
	conn *nats.Conn,
	queue string,
	timeout time.Duration,
	identify identifyHandler,
	location locationHandler,
	disconnect disconnectHandler,
	logger *slog.Logger,
) *Subscriber {
	if queue == "" {
		queue = DefaultQueueGroup
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		conn:       conn,
		queue:      queue,
		timeout:    timeout,
		identify:   identify,
		location:   location,
		disconnect: disconnect,
		logger:     logger.With("component", "location-channel"),
	}
}

// Start subscribes to all three subjects. On failure nothing stays subscribed.
// Devices that drop off without publishing courier.disconnect are taken
// offline by jobs.PresenceSweepJob once their reports stop.
func (s *Subscriber) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	routes := map[string]nats.MsgHandler{
		IdentifySubject:   s.onIdentify,
		LocationSubject:   s.onLocation,
		DisconnectSubject: s.onDisconnect,
	}
	for subject, handler := range routes {
		sub, err := s.conn.QueueSubscribe(subject, s.queue, handler)
		if err != nil {
			s.unsubscribeLocked()
			return err
		}
		s.subs = append(s.subs, sub)
	}
	return s.conn.Flush()
}

// Close drains the subscriptions so in-flight messages finish.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if err := sub.Drain(); err != nil {
			s.logger.Warn("drain subscription", "subject", sub.Subject, "error", err)
		}
	}
	s.subs = nil
}

func (s *Subscriber) unsubscribeLocked() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.subs = nil
}

func (s *Subscriber) onIdentify(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var in IdentifyMessage
	err := json.Unmarshal(msg.Data, &in)
	if err == nil {
		var courierID kernel.UUID
		if courierID, err = kernel.UUIDFromString(in.CourierID); err == nil {
			var cmd commands.IdentifyCourierCommand
			if cmd, err = commands.NewIdentifyCourierCommand(courierID, in.Handle); err == nil {
				_, err = s.identify.Handle(ctx, cmd)
			}
		}
	}

	s.reply(ctx, msg, "identify", err)
}

// onLocation never replies: location reports are fire-and-forget.
func (s *Subscriber) onLocation(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var in LocationMessage
	if err := json.Unmarshal(msg.Data, &in); err != nil {
		s.logger.WarnContext(ctx, "malformed location report", "error", err)
		return
	}

	courierID, err := kernel.UUIDFromString(in.CourierID)
	if err != nil {
		s.logger.WarnContext(ctx, "location report rejected", "error", err)
		return
	}

	cmd, err := commands.NewReportLocationCommand(courierID, in.Latitude, in.Longitude)
	if err != nil {
		s.logger.WarnContext(ctx, "location report rejected", "courier_id", in.CourierID, "error", err)
		return
	}

	if err = s.location.Handle(ctx, cmd); err != nil {
		s.logger.ErrorContext(ctx, "location update failed", "courier_id", in.CourierID, "error", err)
	}
}

func (s *Subscriber) onDisconnect(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var in DisconnectMessage
	err := json.Unmarshal(msg.Data, &in)
	if err == nil {
		var courierID kernel.UUID
		if courierID, err = kernel.UUIDFromString(in.CourierID); err == nil {
			var cmd commands.DisconnectCourierCommand
			if cmd, err = commands.NewDisconnectCourierCommand(courierID); err == nil {
				_, err = s.disconnect.Handle(ctx, cmd)
			}
		}
	}

	s.reply(ctx, msg, "disconnect", err)
}

func (s *Subscriber) reply(ctx context.Context, msg *nats.Msg, op string, err error) {
	ack := Ack{OK: err == nil}
	if err != nil {
		ack.Error = err.Error()
		s.logger.WarnContext(ctx, op+" failed", "error", err)
	}

	if msg.Reply == "" {
		return
	}

	data, marshalErr := json.Marshal(ack)
	if marshalErr != nil {
		s.logger.ErrorContext(ctx, "encode ack", "error", marshalErr)
		return
	}
	if respondErr := msg.Respond(data); respondErr != nil && !errors.Is(respondErr, nats.ErrConnectionClosed) {
		s.logger.WarnContext(ctx, "ack not delivered", "op", op, "error", respondErr)
	}
}
