// internal/client/options.go
package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Timeouts bounds each operation. A zero field falls back to DefaultTimeouts.
type Timeouts struct {
	Connect              time.Duration
	ReadCoils            time.Duration
	ReadDiscreteInputs   time.Duration
	ReadHoldingRegisters time.Duration
	ReadInputRegisters   time.Duration
	Write                time.Duration
}

// DefaultTimeouts: 5s everywhere except discrete inputs, which get 1s.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Connect:              5 * time.Second,
		ReadCoils:            5 * time.Second,
		ReadDiscreteInputs:   1 * time.Second,
		ReadHoldingRegisters: 5 * time.Second,
		ReadInputRegisters:   5 * time.Second,
		Write:                5 * time.Second,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	def := DefaultTimeouts()
	fill := func(v *time.Duration, d time.Duration) {
		if *v <= 0 {
			*v = d
		}
	}
	fill(&t.Connect, def.Connect)
	fill(&t.ReadCoils, def.ReadCoils)
	fill(&t.ReadDiscreteInputs, def.ReadDiscreteInputs)
	fill(&t.ReadHoldingRegisters, def.ReadHoldingRegisters)
	fill(&t.ReadInputRegisters, def.ReadInputRegisters)
	fill(&t.Write, def.Write)
	return t
}

// For returns the deadline applied to fc. Unknown codes get zero: they are
// rejected before any wait starts.
func (t Timeouts) For(fc FunctionCode) time.Duration {
	switch fc {
	case ReadCoils:
		return t.ReadCoils
	case ReadDiscreteInputs:
		return t.ReadDiscreteInputs
	case ReadHoldingRegisters:
		return t.ReadHoldingRegisters
	case ReadInputRegisters:
		return t.ReadInputRegisters
	}
	if fc.IsWrite() {
		return t.Write
	}
	return 0
}

// Option configures a Client.
type Option func(c *Client)

// WithTimeouts overrides the per-operation deadlines.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		c.timeouts = t.withDefaults()
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithID sets the session id used to correlate log lines and telemetry.
func WithID(id uuid.UUID) Option {
	return func(c *Client) {
		c.id = id
	}
}
