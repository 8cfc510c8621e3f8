// Package relay forwards drained engine events to out-of-process
// collaborators (audio, UI) over NATS. Each event is published as JSON on
// "<prefix>.<event name>".
package relay

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-errors"
	"go.uber.org/zap"

	"github.com/wrongway/engine/internal/core/event"
)

// Message is the wire form of one event.
type Message struct {
	Seq     uint64 `json:"seq"`
	AtMS    int64  `json:"at_ms"` // survival time at emission
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Payload any    `json:"payload"`
}

type Publisher struct {
	conn    *nats.Conn
	prefix  string
	session string
	log     *zap.Logger
}

// Dial connects to the NATS server at url.
func Dial(url, prefix string, log *zap.Logger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := nats.Connect(url,
		nats.Name("wrongway"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("relay disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("relay reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect relay %s: %w", url, err)
	}
	return &Publisher{conn: conn, prefix: prefix, log: log}, nil
}

// Subject returns the subject an event payload is published on.
func Subject(prefix string, payload any) string {
	return prefix + "." + event.Name(payload)
}

// Encode builds the JSON message for one envelope.
func Encode(env event.Envelope, session string) ([]byte, error) {
	return json.Marshal(Message{
		Seq:     env.Seq,
		AtMS:    env.At.Milliseconds(),
		Type:    event.Name(env.Payload),
		Session: session,
		Payload: env.Payload,
	})
}

// Publish sends every envelope in order. Session IDs are tracked from
// SessionStarted events so later messages carry them.
func (p *Publisher) Publish(envs []event.Envelope) error {
	el := errors.NewErrorList()

	for _, env := range envs {
		if ev, ok := env.Payload.(event.SessionStarted); ok {
			p.session = ev.SessionID
		}
		data, err := Encode(env, p.session)
		if err != nil {
			el.Add(fmt.Errorf("encode event %d: %w", env.Seq, err))
			continue
		}
		if err := p.conn.Publish(Subject(p.prefix, env.Payload), data); err != nil {
			el.Add(fmt.Errorf("publish event %d: %w", env.Seq, err))
		}
	}

	return el.Err()
}

// Flush waits until the server has received everything published so far.
func (p *Publisher) Flush() error {
	return p.conn.Flush()
}

func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("relay drain", zap.Error(err))
		p.conn.Close()
	}
}
