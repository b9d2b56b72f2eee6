// internal/telemetry/nats.go
package telemetry

import (
	"fmt"
	"strings"
	"time"

	nats "github.com/nats-io/nats.go"
)

// NATS publishes on subjects derived from the topic: "/" becomes ".".
type NATS struct {
	conn    *nats.Conn
	timeout time.Duration
}

// NewNATS connects to cfg.Broker (for example nats://127.0.0.1:4222).
func NewNATS(cfg Config) (*NATS, error) {
	nc, err := nats.Connect(cfg.Broker,
		nats.Name(cfg.ClientID),
		nats.Timeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: nats connect %s: %w", cfg.Broker, err)
	}
	return &NATS{conn: nc, timeout: cfg.Timeout}, nil
}

func (n *NATS) Publish(topic string, payload []byte) error {
	return n.conn.Publish(Subject(topic), payload)
}

// Close flushes pending publishes, bounded by the configured timeout, and
// closes the connection. The connection is closed even when the flush fails.
func (n *NATS) Close() error {
	err := n.conn.FlushTimeout(n.timeout)
	n.conn.Close()
	if err != nil {
		return fmt.Errorf("telemetry: nats flush: %w", err)
	}
	return nil
}

// Subject converts an MQTT-style topic into a NATS subject.
// Dots and spaces inside a level would split or break the subject, so they
// are replaced with "_".
func Subject(topic string) string {
	levels := strings.Split(strings.Trim(topic, "/"), "/")
	for i, l := range levels {
		levels[i] = strings.NewReplacer(".", "_", " ", "_").Replace(l)
	}
	return strings.Join(levels, ".")
}
