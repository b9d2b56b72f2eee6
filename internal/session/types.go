// internal/session/types.go
package session

import (
	"time"

	"github.com/tamzrod/modbus-supervisor/internal/client"
	"github.com/tamzrod/modbus-supervisor/internal/device"
	"github.com/tamzrod/modbus-supervisor/internal/status"
)

// Operation is one request issued against every endpoint.
// Values is used by write codes only.
type Operation struct {
	FC       client.FunctionCode
	Address  uint16
	Quantity uint16
	Values   []uint16
}

// OperationResult is the outcome of a single Operation.
type OperationResult struct {
	Operation Operation

	// Values holds the read result; nil for writes.
	Values []uint16
	Err    error
	Took   time.Duration
}

// EndpointResult is everything one connect -> operate -> disconnect cycle
// produced.
type EndpointResult struct {
	Endpoint device.Endpoint
	Session  string

	ConnectErr    error // non-nil means no operation ran
	Operations    []OperationResult
	Skipped       int // operations not attempted after a failed reconnect
	DisconnectErr error

	Status status.Snapshot
}

// Report aggregates one full run over the descriptor set.
type Report struct {
	RunID string

	Gateways         int
	Endpoints        int
	Connected        int
	OperationsOK     int
	OperationsFailed int

	Results []EndpointResult
}

func (r *Report) add(res EndpointResult) {
	r.Endpoints++
	if res.ConnectErr == nil {
		r.Connected++
	}
	for _, op := range res.Operations {
		if op.Err == nil {
			r.OperationsOK++
		} else {
			r.OperationsFailed++
		}
	}
	r.Results = append(r.Results, res)
}
