// internal/client/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/goburrow/modbus"

	"github.com/tamzrod/modbus-supervisor/internal/client"
)

// DefaultIOTimeout bounds dial and each request on the socket. It is longer
// than any client deadline so the client's own timer decides first.
const DefaultIOTimeout = 10 * time.Second

// Config is minimal transport config.
type Config struct {
	// IOTimeout bounds dial and each request on the socket.
	IOTimeout time.Duration

	// Logger receives goburrow's frame dumps. Nil disables them.
	Logger *log.Logger
}

// Transport implements client.Transport using Modbus TCP.
// It is stateless; every Open dials a fresh connection.
//
// goburrow frames and verifies requests, but the socket belongs to the
// Session: it is never redialed, never closed for idleness, and a dropped
// connection surfaces as an error on the next request.
type Transport struct {
	cfg Config
}

// NewTransport creates a TCP transport.
func NewTransport(cfg Config) *Transport {
	if cfg.IOTimeout <= 0 {
		cfg.IOTimeout = DefaultIOTimeout
	}
	return &Transport{cfg: cfg}
}

// Open dials target and binds the connection to station.
func (t *Transport) Open(target string, station uint8) (client.Session, error) {
	if target == "" {
		return nil, errors.New("modbus tcp: target required")
	}

	nc, err := dial(target, t.cfg.IOTimeout, t.cfg.Logger)
	if err != nil {
		return nil, err
	}

	// the handler is used only as the MBAP packager
	p := modbus.NewTCPClientHandler(target)
	p.SlaveId = station

	return &Session{
		conn:   nc,
		client: modbus.NewClient2(p, nc),
	}, nil
}

// Session is one open TCP connection bound to a station.
// This adapter is geometry-only: it packs requests and unpacks raw responses.
type Session struct {
	conn   *conn
	client modbus.Client
}

// Close closes the TCP connection without waiting for a request still in
// flight; that request fails with a socket error.
func (s *Session) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	return s.conn.close()
}

// ---- client.Session interface ----

func (s *Session) ReadCoils(addr, qty uint16) ([]bool, error) {
	raw, err := s.client.ReadCoils(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackBits(raw, int(qty))
}

func (s *Session) ReadDiscreteInputs(addr, qty uint16) ([]bool, error) {
	raw, err := s.client.ReadDiscreteInputs(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackBits(raw, int(qty))
}

func (s *Session) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	raw, err := s.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, int(qty))
}

func (s *Session) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	raw, err := s.client.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, int(qty))
}

// coil ON/OFF encodings for function 5
const (
	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000
)

func (s *Session) WriteSingleCoil(addr uint16, on bool) error {
	v := coilOff
	if on {
		v = coilOn
	}
	_, err := s.client.WriteSingleCoil(addr, v)
	return err
}

func (s *Session) WriteSingleRegister(addr, value uint16) error {
	_, err := s.client.WriteSingleRegister(addr, value)
	return err
}

func (s *Session) WriteMultipleCoils(addr uint16, states []bool) error {
	_, err := s.client.WriteMultipleCoils(addr, uint16(len(states)), packBits(states))
	return err
}

func (s *Session) WriteMultipleRegisters(addr uint16, values []uint16) error {
	_, err := s.client.WriteMultipleRegisters(addr, uint16(len(values)), packRegisters(values))
	return err
}

// ---- helpers (pure geometry) ----

func unpackBits(data []byte, count int) ([]bool, error) {
	if need := (count + 7) / 8; len(data) < need {
		return nil, fmt.Errorf("modbus: read-bits payload %d bytes, want %d", len(data), need)
	}
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		out[i] = data[i/8]&(1<<uint(i%8)) != 0
	}
	return out, nil
}

func unpackRegisters(data []byte, count int) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("modbus: read-registers byte count not even")
	}
	if len(data)/2 < count {
		return nil, fmt.Errorf("modbus: read-registers payload %d registers, want %d", len(data)/2, count)
	}
	out := make([]uint16, count)
	for i := 0; i < count; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out, nil
}

func packBits(bits []bool) []byte {
	n := (len(bits) + 7) / 8
	out := make([]byte, n)
	for i, v := range bits {
		if v {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
