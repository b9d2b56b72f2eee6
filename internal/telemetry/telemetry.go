// internal/telemetry/telemetry.go
package telemetry

import (
	"fmt"
	"time"
)

// Publisher sends opaque payloads to a topic on a message broker.
// Publish failures are reported to the caller; they never abort a run.
type Publisher interface {
	Publish(topic string, payload []byte) error
	Close() error
}

// Config selects and configures a broker.
type Config struct {
	Kind     string // "", "mqtt" or "nats"
	Broker   string
	ClientID string

	// Timeout bounds connect and each publish. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is applied when Config.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// New connects the publisher selected by cfg.Kind.
// An empty kind returns a publisher that drops everything.
func New(cfg Config) (Publisher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Kind {
	case "":
		return Nop{}, nil
	case "mqtt":
		return NewMQTT(cfg)
	case "nats":
		return NewNATS(cfg)
	}
	return nil, fmt.Errorf("telemetry: unknown kind %q", cfg.Kind)
}

// Nop drops every payload.
type Nop struct{}

func (Nop) Publish(string, []byte) error { return nil }
func (Nop) Close() error { return nil }
