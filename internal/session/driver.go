// internal/session/driver.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-supervisor/internal/client"
	"github.com/tamzrod/modbus-supervisor/internal/device"
	"github.com/tamzrod/modbus-supervisor/internal/telemetry"
)

// Client abstracts the protocol client operations the driver needs.
type Client interface {
	ID() uuid.UUID
	Connect(ctx context.Context) error
	Read(ctx context.Context, fc client.FunctionCode, address, quantity uint16) ([]uint16, error)
	Write(ctx context.Context, fc client.FunctionCode, address, quantity uint16, values []uint16) error
	Disconnect() error
}

// Factory creates one fresh, disconnected client per endpoint.
type Factory func(ep device.Endpoint) Client

// Config is the runtime config the driver needs.
type Config struct {
	// Settle is the pause between connect success and the first operation.
	Settle time.Duration

	// Operations run in order against every endpoint.
	Operations []Operation

	// ReconnectOnTimeout drops and reopens the session after an operation
	// times out. If the reconnect fails the remaining operations are skipped.
	ReconnectOnTimeout bool

	// Topic is the telemetry topic root. Empty disables publishing.
	Topic string
}

// Driver walks the descriptor set one endpoint at a time.
type Driver struct {
	cfg     Config
	factory Factory
	pub     telemetry.Publisher
	log     zerolog.Logger
	runID   uuid.UUID
}

// New creates a driver with immutable config.
// A nil publisher disables telemetry.
func New(cfg Config, factory Factory, pub telemetry.Publisher, log zerolog.Logger) (*Driver, error) {
	if factory == nil {
		return nil, errors.New("session: client factory required")
	}
	if cfg.Settle < 0 {
		return nil, errors.New("session: settle must be >= 0")
	}
	if len(cfg.Operations) == 0 {
		return nil, errors.New("session: at least one operation required")
	}
	for i, op := range cfg.Operations {
		if !op.FC.IsRead() && !op.FC.IsWrite() {
			return nil, fmt.Errorf("session: operation[%d]: unsupported %s", i, op.FC)
		}
	}
	if pub == nil {
		pub = telemetry.Nop{}
	}

	runID := uuid.New()
	return &Driver{
		cfg:     cfg,
		factory: factory,
		pub:     pub,
		log:     log.With().Str("run", runID.String()).Logger(),
		runID:   runID,
	}, nil
}

// RunID identifies this driver's run in logs and telemetry.
func (d *Driver) RunID() uuid.UUID { return d.runID }
