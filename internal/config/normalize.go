// internal/config/normalize.go
package config

// Defaults applied by Normalize.
const (
	DefaultConnectMs              = 5000
	DefaultReadCoilsMs            = 5000
	DefaultReadDiscreteInputsMs   = 1000
	DefaultReadHoldingRegistersMs = 5000
	DefaultReadInputRegistersMs   = 5000
	DefaultWriteMs                = 5000

	DefaultSettleMs = 100

	DefaultTelemetryClientID = "modbus-supervisor"
	DefaultTelemetryTopic    = "modbus/status"
)

// DefaultOperations is the demonstration sequence run against every endpoint
// when the file does not list its own.
func DefaultOperations() []OperationConfig {
	return []OperationConfig{
		{FC: 0x04, Address: 0, Quantity: 4},
		{FC: 0x03, Address: 0, Quantity: 4},
		{FC: 0x0F, Address: 0, Quantity: 4, Values: []uint16{1, 1, 1, 1}},
	}
}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	t := &cfg.Timeouts
	orDefault(&t.ConnectMs, DefaultConnectMs)
	orDefault(&t.ReadCoilsMs, DefaultReadCoilsMs)
	orDefault(&t.ReadDiscreteInputsMs, DefaultReadDiscreteInputsMs)
	orDefault(&t.ReadHoldingRegistersMs, DefaultReadHoldingRegistersMs)
	orDefault(&t.ReadInputRegistersMs, DefaultReadInputRegistersMs)
	orDefault(&t.WriteMs, DefaultWriteMs)

	if cfg.Session.SettleMs == nil {
		settle := DefaultSettleMs
		cfg.Session.SettleMs = &settle
	}

	if cfg.Session.ReconnectOnTimeout == nil {
		on := true
		cfg.Session.ReconnectOnTimeout = &on
	}

	if len(cfg.Session.Operations) == 0 {
		cfg.Session.Operations = DefaultOperations()
	}

	if cfg.Telemetry.Kind != "" {
		if cfg.Telemetry.ClientID == "" {
			cfg.Telemetry.ClientID = DefaultTelemetryClientID
		}
		if cfg.Telemetry.Topic == "" {
			cfg.Telemetry.Topic = DefaultTelemetryTopic
		}
	}
}

func orDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}
