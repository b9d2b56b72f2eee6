// internal/client/transport.go
package client

// Transport opens sessions to a device. Implementations own the wire codec;
// the client only dispatches, validates and bounds calls in time.
//
// Calls may block for as long as the underlying I/O does. The client races
// each call against its own deadline, so a Transport does not need to honor
// any deadline of its own.
type Transport interface {
	Open(target string, station uint8) (Session, error)
}

// Session is one open connection bound to a station.
// A Session is used by exactly one Client and never shared.
//
// A Session must not reconnect on its own: once the connection drops, every
// later call fails until the Client disconnects and connects again. Close
// must not wait for a call that is still blocked; it may run while one is.
type Session interface {
	ReadCoils(address, quantity uint16) ([]bool, error)
	ReadDiscreteInputs(address, quantity uint16) ([]bool, error)
	ReadHoldingRegisters(address, quantity uint16) ([]uint16, error)
	ReadInputRegisters(address, quantity uint16) ([]uint16, error)

	WriteSingleCoil(address uint16, on bool) error
	WriteSingleRegister(address, value uint16) error
	WriteMultipleCoils(address uint16, states []bool) error
	WriteMultipleRegisters(address uint16, values []uint16) error

	Close() error
}
