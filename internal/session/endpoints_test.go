// internal/session/endpoints_test.go
package session

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/tamzrod/modbus-supervisor/internal/config"
	"github.com/tamzrod/modbus-supervisor/internal/device"
)

func TestExpand_PreservesOrder(t *testing.T) {
	gws := []config.GatewayConfig{
		{IP: "10.0.0.5", Port: 502, SlaveIDs: []uint8{3, 1}},
		{IP: "10.0.0.6", Port: 503, SlaveIDs: nil},
		{IP: "10.0.0.7", Port: 502, SlaveIDs: []uint8{9}},
	}

	got := Expand(gws)
	want := []device.Endpoint{
		{Address: "10.0.0.5", Port: 502, StationID: 3},
		{Address: "10.0.0.5", Port: 502, StationID: 1},
		{Address: "10.0.0.7", Port: 502, StationID: 9},
	}
	assert.DeepEqual(t, got, want)
}

func TestEndpoints_NoSlaveIDs(t *testing.T) {
	got := Endpoints(config.GatewayConfig{IP: "10.0.0.6", Port: 503})
	assert.Equal(t, len(got), 0)
}
