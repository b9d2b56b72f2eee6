// internal/session/endpoints.go
package session

import (
	"github.com/tamzrod/modbus-supervisor/internal/config"
	"github.com/tamzrod/modbus-supervisor/internal/device"
)

// Endpoints expands one gateway descriptor into its endpoints, in
// slave id order.
func Endpoints(g config.GatewayConfig) []device.Endpoint {
	out := make([]device.Endpoint, 0, len(g.SlaveIDs))
	for _, id := range g.SlaveIDs {
		out = append(out, device.Endpoint{
			Address:   g.IP,
			Port:      g.Port,
			StationID: id,
		})
	}
	return out
}

// Expand flattens every gateway of the set, preserving descriptor order.
func Expand(gateways []config.GatewayConfig) []device.Endpoint {
	var out []device.Endpoint
	for _, g := range gateways {
		out = append(out, Endpoints(g)...)
	}
	return out
}
