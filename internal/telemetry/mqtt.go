// internal/telemetry/mqtt.go
package telemetry

import (
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttKeepAlive = 5 * time.Second
	mqttQoS       = 1
)

// MQTT publishes with QoS 1, not retained.
type MQTT struct {
	client mqtt.Client
	cfg    Config
}

// NewMQTT connects to cfg.Broker (for example tcp://127.0.0.1:1883).
func NewMQTT(cfg Config) (*MQTT, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetKeepAlive(mqttKeepAlive).
		SetConnectTimeout(cfg.Timeout).
		SetAutoReconnect(true)

	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("telemetry: mqtt connect %s: timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: mqtt connect %s: %w", cfg.Broker, err)
	}

	return &MQTT{client: c, cfg: cfg}, nil
}

func (m *MQTT) Publish(topic string, payload []byte) error {
	tok := m.client.Publish(topic, mqttQoS, false, payload)
	if !tok.WaitTimeout(m.cfg.Timeout) {
		return errors.New("telemetry: mqtt publish timed out")
	}
	return tok.Error()
}

// Close waits up to 250ms for in-flight work.
func (m *MQTT) Close() error {
	m.client.Disconnect(250)
	return nil
}
