// internal/device/endpoint.go
package device

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Endpoint is one (address, port, station) triple resolved from a gateway
// descriptor.
// It is the unit of connection and is never mutated after construction.
type Endpoint struct {
	Address   string
	Port      uint16
	StationID uint8
}

// Target returns the host:port dial target.
// Port and station are passed through unchecked; the transport rejects them.
func (e Endpoint) Target() (string, error) {
	addr := strings.TrimSpace(e.Address)
	if addr == "" {
		return "", errors.New("device: empty address")
	}
	if strings.ContainsAny(addr, " \t/") {
		return "", fmt.Errorf("device: malformed address %q", e.Address)
	}
	return net.JoinHostPort(addr, strconv.Itoa(int(e.Port))), nil
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d#%d", e.Address, e.Port, e.StationID)
}
