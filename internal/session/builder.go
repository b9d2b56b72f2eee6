// internal/session/builder.go
package session

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-supervisor/internal/client"
	cfg "github.com/tamzrod/modbus-supervisor/internal/config"
	"github.com/tamzrod/modbus-supervisor/internal/device"
	"github.com/tamzrod/modbus-supervisor/internal/telemetry"
)

// Build constructs a Driver from a validated, normalized config and wires
// the client lifecycle: one fresh client per endpoint, created by the
// factory on demand. No retries, no pooling.
func Build(c *cfg.Config, transport client.Transport, pub telemetry.Publisher, log zerolog.Logger) (*Driver, error) {
	timeouts := Timeouts(c.Timeouts)

	factory := func(ep device.Endpoint) Client {
		return client.New(ep, transport,
			client.WithTimeouts(timeouts),
			client.WithLogger(log),
		)
	}

	ops := make([]Operation, 0, len(c.Session.Operations))
	for i, o := range c.Session.Operations {
		fc, err := client.ParseFunctionCode(o.FC)
		if err != nil {
			return nil, fmt.Errorf("session: operation[%d]: %w", i, err)
		}
		ops = append(ops, Operation{
			FC:       fc,
			Address:  o.Address,
			Quantity: o.Quantity,
			Values:   o.Values,
		})
	}

	reconnect := true
	if c.Session.ReconnectOnTimeout != nil {
		reconnect = *c.Session.ReconnectOnTimeout
	}

	settle := time.Duration(0)
	if c.Session.SettleMs != nil {
		settle = ms(*c.Session.SettleMs)
	}

	topic := ""
	if c.Telemetry.Kind != "" {
		topic = c.Telemetry.Topic
	}

	return New(
		Config{
			Settle:             settle,
			Operations:         ops,
			ReconnectOnTimeout: reconnect,
			Topic:              topic,
		},
		factory,
		pub,
		log,
	)
}

// Timeouts converts the millisecond config into client deadlines.
// Zero fields fall back to the client defaults.
func Timeouts(t cfg.TimeoutConfig) client.Timeouts {
	return client.Timeouts{
		Connect:              ms(t.ConnectMs),
		ReadCoils:            ms(t.ReadCoilsMs),
		ReadDiscreteInputs:   ms(t.ReadDiscreteInputsMs),
		ReadHoldingRegisters: ms(t.ReadHoldingRegistersMs),
		ReadInputRegisters:   ms(t.ReadInputRegistersMs),
		Write:                ms(t.WriteMs),
	}
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}
