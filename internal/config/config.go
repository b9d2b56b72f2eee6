// internal/config/config.go
package config

// DefaultPath is the descriptor file used when none is given.
const DefaultPath = "modbus_config.yaml"

type Config struct {
	Gateways  []GatewayConfig `yaml:"gateways"`
	Timeouts  TimeoutConfig   `yaml:"timeouts,omitempty"`
	Session   SessionConfig   `yaml:"session,omitempty"`
	Telemetry TelemetryConfig `yaml:"telemetry,omitempty"`
}

// ---- GATEWAY ----

// GatewayConfig is one device group: a network address plus the station ids
// reachable behind it.
type GatewayConfig struct {
	IP       string  `yaml:"ip"`
	Port     uint16  `yaml:"port"`
	SlaveIDs []uint8 `yaml:"slave_ids"`
}

// ---- TIMEOUTS ----

// TimeoutConfig holds per-operation deadlines in milliseconds.
// Zero means "use the default".
type TimeoutConfig struct {
	ConnectMs              int `yaml:"connect_ms,omitempty"`
	ReadCoilsMs            int `yaml:"read_coils_ms,omitempty"`
	ReadDiscreteInputsMs   int `yaml:"read_discrete_inputs_ms,omitempty"`
	ReadHoldingRegistersMs int `yaml:"read_holding_registers_ms,omitempty"`
	ReadInputRegistersMs   int `yaml:"read_input_registers_ms,omitempty"`
	WriteMs                int `yaml:"write_ms,omitempty"`
}

// ---- SESSION ----

type SessionConfig struct {
	// SettleMs is the pause between connect success and the first operation.
	// Nil means DefaultSettleMs; 0 disables the pause.
	SettleMs *int `yaml:"settle_ms,omitempty"`

	// ReconnectOnTimeout closes and reopens the connection after an
	// operation times out, before the next operation runs.
	ReconnectOnTimeout *bool `yaml:"reconnect_on_timeout,omitempty"`

	Operations []OperationConfig `yaml:"operations,omitempty"`
}

// OperationConfig is one request issued against every endpoint.
// Values is only meaningful for write function codes.
type OperationConfig struct {
	FC       uint8    `yaml:"fc"`
	Address  uint16   `yaml:"address"`
	Quantity uint16   `yaml:"quantity"`
	Values   []uint16 `yaml:"values,omitempty"`
}

// ---- TELEMETRY ----

type TelemetryConfig struct {
	Kind     string `yaml:"kind,omitempty"` // "", "mqtt", "nats"
	Broker   string `yaml:"broker,omitempty"`
	ClientID string `yaml:"client_id,omitempty"`
	Topic    string `yaml:"topic,omitempty"`
}
