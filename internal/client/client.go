// internal/client/client.go
package client

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-supervisor/internal/device"
)

// Client owns at most one transport session to one device endpoint.
//
// States: disconnected -> connected -> disconnected. Read and Write run only
// while connected. A failed Read or Write leaves the state unchanged; only
// Disconnect releases the session.
//
// Operations on one Client are serialized. Independent Clients share nothing
// and may run concurrently.
//
// After a TimeoutError the abandoned request may still be in flight on the
// wire. Whether the session is usable afterwards depends on the transport;
// callers should Disconnect and Connect again.
type Client struct {
	endpoint  device.Endpoint
	transport Transport
	timeouts  Timeouts
	log       zerolog.Logger
	id        uuid.UUID

	mu      sync.Mutex
	session Session // nil while disconnected
}

// New creates a disconnected client for endpoint.
func New(endpoint device.Endpoint, transport Transport, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpoint,
		transport: transport,
		timeouts:  DefaultTimeouts(),
		log:       zerolog.Nop(),
		id:        uuid.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().
		Str("endpoint", endpoint.String()).
		Str("session", c.id.String()).
		Logger()
	return c
}

// ID is the session id attached to this client's log lines.
func (c *Client) ID() uuid.UUID { return c.id }

// Connected reports whether a session is held.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Connect opens the session, bounded by the connect timeout.
// Calling Connect while connected is a no-op.
//
// A connection that completes after the deadline is closed as soon as it
// arrives; it is never handed to the caller.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return nil
	}

	target, err := c.endpoint.Target()
	if err != nil {
		return newError(KindConnection, "connect", 0, err)
	}

	c.log.Debug().
		Str("target", target).
		Dur("timeout", c.timeouts.Connect).
		Msg("connecting")

	s, err := await(ctx, c.timeouts.Connect,
		func() (Session, error) {
			return c.transport.Open(target, c.endpoint.StationID)
		},
		func(late Session) {
			_ = late.Close()
		},
	)
	if err != nil {
		err = c.classify(ctx, "connect", 0, KindConnection, err)
		c.log.Warn().Err(err).Msg("connect failed")
		return err
	}

	c.session = s
	c.log.Debug().Msg("connected")
	return nil
}

// Disconnect closes the session if one is held. The client is disconnected
// afterwards even when the close itself fails. Without a session it is a
// successful no-op.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s == nil {
		return nil
	}

	if err := s.Close(); err != nil {
		c.log.Warn().Err(err).Msg("close failed")
		return newError(KindConnection, "disconnect", 0, err)
	}

	c.log.Debug().Msg("disconnected")
	return nil
}

// classify maps a failed await onto the error taxonomy. Cancellation by the
// caller's own context is returned as is.
func (c *Client) classify(ctx context.Context, op string, fc FunctionCode, failure Kind, err error) error {
	switch {
	case errors.Is(err, errDeadline):
		return newError(KindTimeout, op, fc, nil)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return err
	case isTransportTimeout(err):
		return newError(KindTimeout, op, fc, err)
	default:
		return newError(failure, op, fc, err)
	}
}
