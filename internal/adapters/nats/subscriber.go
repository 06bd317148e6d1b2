package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/ports"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeMissionEvents delivers one kind of mission event (e.g. "created")
// to handler with a durable consumer. Handler errors nak for redelivery.
func (s *Subscriber) SubscribeMissionEvents(ctx context.Context, event string, handler func(ctx context.Context, e *domain.MissionEvent) error) error {
	sub, err := s.js.Subscribe(MissionSubject("*", event), func(msg *nats.Msg) {
		var e domain.MissionEvent
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			slog.Warn("drop malformed mission event", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &e); err != nil {
			slog.Warn("mission event handler failed", "mission_id", e.MissionID, "event", event, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("mission-"+event+"-processor"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	s.mu.Unlock()
	_ = s.conn.Drain()
}

var _ ports.EventSubscriber = (*Subscriber)(nil)
