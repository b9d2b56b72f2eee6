// internal/status/encode.go
package status

import (
	"encoding/json"
	"errors"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-supervisor/internal/client"
)

// Encode converts a Snapshot into its telemetry payload.
// No IO. No side effects.
func Encode(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

// ErrorCode extracts a best-effort uint16 code from err.
// A Modbus exception raised by the device wins; otherwise the client error
// kind is reported above KindCodeBase. Unclassified errors return 1.
func ErrorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	var mbErr *modbus.ModbusError
	if errors.As(err, &mbErr) {
		return uint16(mbErr.ExceptionCode)
	}

	if k := client.KindOf(err); k != client.KindUnknown {
		return KindCodeBase + uint16(k)
	}

	return 1
}

// ErrorKind names the client error kind of err, or "unknown".
func ErrorKind(err error) string {
	return client.KindOf(err).String()
}
