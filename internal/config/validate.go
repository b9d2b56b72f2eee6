// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/modbus-supervisor/internal/client"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
//
// Port and slave id ranges are deliberately not checked: out-of-range values
// are passed to the transport and rejected there.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}

	// ------------------------------------------------------------
	// GATEWAYS
	// ------------------------------------------------------------

	for i, g := range cfg.Gateways {
		if g.IP == "" {
			return fmt.Errorf("config: gateway[%d]: ip is required", i)
		}
	}

	// ------------------------------------------------------------
	// TIMEOUTS
	// ------------------------------------------------------------

	t := cfg.Timeouts
	for _, f := range []struct {
		name string
		ms   int
	}{
		{"connect_ms", t.ConnectMs},
		{"read_coils_ms", t.ReadCoilsMs},
		{"read_discrete_inputs_ms", t.ReadDiscreteInputsMs},
		{"read_holding_registers_ms", t.ReadHoldingRegistersMs},
		{"read_input_registers_ms", t.ReadInputRegistersMs},
		{"write_ms", t.WriteMs},
	} {
		if f.ms < 0 {
			return fmt.Errorf("config: timeouts.%s must be >= 0, got %d", f.name, f.ms)
		}
	}

	// ------------------------------------------------------------
	// SESSION
	// ------------------------------------------------------------

	if s := cfg.Session.SettleMs; s != nil && *s < 0 {
		return fmt.Errorf("config: session.settle_ms must be >= 0, got %d", *s)
	}

	for i, op := range cfg.Session.Operations {
		fc, err := client.ParseFunctionCode(op.FC)
		if err != nil {
			return fmt.Errorf("config: operation[%d]: unsupported fc=%d", i, op.FC)
		}
		if fc.IsRead() && len(op.Values) > 0 {
			return fmt.Errorf("config: operation[%d]: fc=%d is a read and takes no values", i, op.FC)
		}
		if fc.IsWrite() && len(op.Values) == 0 {
			return fmt.Errorf("config: operation[%d]: fc=%d is a write and requires values", i, op.FC)
		}
	}

	// ------------------------------------------------------------
	// TELEMETRY
	// ------------------------------------------------------------

	switch cfg.Telemetry.Kind {
	case "":
	case "mqtt", "nats":
		if cfg.Telemetry.Broker == "" {
			return fmt.Errorf("config: telemetry.broker is required for kind %q", cfg.Telemetry.Kind)
		}
	default:
		return fmt.Errorf("config: unknown telemetry.kind %q", cfg.Telemetry.Kind)
	}

	return nil
}
