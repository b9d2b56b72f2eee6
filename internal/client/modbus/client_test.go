// internal/client/modbus/client_test.go
package modbus

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goburrow/modbus"
	"gotest.tools/v3/assert"

	"github.com/tamzrod/modbus-supervisor/internal/client"
	"github.com/tamzrod/modbus-supervisor/internal/device"
)

// ---- in-process Modbus TCP device ----

// testDevice answers FC 1, 3, 15 and 16 and raises "illegal data address"
// for everything else.
type testDevice struct {
	ln net.Listener

	mu        sync.Mutex
	unitIDs   []uint8
	coils     []bool
	registers []uint16
}

func startDevice(t *testing.T) *testDevice {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)

	d := &testDevice{ln: ln}
	go d.serve()
	t.Cleanup(func() { _ = ln.Close() })
	return d
}

func (d *testDevice) addr() string { return d.ln.Addr().String() }

func (d *testDevice) serve() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		go d.handle(conn)
	}
}

func (d *testDevice) handle(conn net.Conn) {
	defer conn.Close()
	for {
		hdr := make([]byte, 7)
		if _, err := io.ReadFull(conn, hdr); err != nil {
			return
		}
		length := binary.BigEndian.Uint16(hdr[4:6])
		pdu := make([]byte, length-1)
		if _, err := io.ReadFull(conn, pdu); err != nil {
			return
		}

		d.mu.Lock()
		d.unitIDs = append(d.unitIDs, hdr[6])
		d.mu.Unlock()

		resp := d.reply(pdu)

		out := make([]byte, 7+len(resp))
		copy(out[0:4], hdr[0:4])
		binary.BigEndian.PutUint16(out[4:6], uint16(1+len(resp)))
		out[6] = hdr[6]
		copy(out[7:], resp)
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

func (d *testDevice) reply(pdu []byte) []byte {
	fc := pdu[0]
	addr := binary.BigEndian.Uint16(pdu[1:3])
	qty := binary.BigEndian.Uint16(pdu[3:5])

	switch fc {
	case 0x01:
		n := (int(qty) + 7) / 8
		out := []byte{fc, byte(n)}
		packed := make([]byte, n)
		for i := 0; i < int(qty); i++ {
			if i%2 == 0 {
				packed[i/8] |= 1 << uint(i%8)
			}
		}
		return append(out, packed...)

	case 0x03:
		out := []byte{fc, byte(2 * qty)}
		for i := uint16(0); i < qty; i++ {
			out = append(out, byte((addr+i)>>8), byte(addr+i))
		}
		return out

	case 0x0F:
		bits := pdu[6:]
		d.mu.Lock()
		d.coils = make([]bool, qty)
		for i := range d.coils {
			d.coils[i] = bits[i/8]&(1<<uint(i%8)) != 0
		}
		d.mu.Unlock()
		return pdu[0:5]

	case 0x10:
		data := pdu[6:]
		d.mu.Lock()
		d.registers = make([]uint16, qty)
		for i := range d.registers {
			d.registers[i] = binary.BigEndian.Uint16(data[2*i:])
		}
		d.mu.Unlock()
		return pdu[0:5]
	}

	return []byte{fc | 0x80, 0x02}
}

// silentDevice accepts connections and reads requests but never answers.
// With hangup set it closes every connection on its first request instead.
type silentDevice struct {
	ln      net.Listener
	hangup  bool
	accepts atomic.Int32
}

func startSilentDevice(t *testing.T, hangup bool) *silentDevice {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)

	d := &silentDevice{ln: ln, hangup: hangup}
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			d.accepts.Add(1)
			go func() {
				defer conn.Close()
				buf := make([]byte, 260)
				for {
					if _, err := conn.Read(buf); err != nil {
						return
					}
					if d.hangup {
						return
					}
				}
			}()
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return d
}

func (d *silentDevice) endpoint(t *testing.T) device.Endpoint {
	t.Helper()
	host, port, err := net.SplitHostPort(d.ln.Addr().String())
	assert.NilError(t, err)
	p, err := strconv.Atoi(port)
	assert.NilError(t, err)
	return device.Endpoint{Address: host, Port: uint16(p), StationID: 1}
}

// ---- tests ----

func TestSession_ReadHoldingRegisters(t *testing.T) {
	d := startDevice(t)

	s, err := NewTransport(Config{IOTimeout: time.Second}).Open(d.addr(), 3)
	assert.NilError(t, err)
	defer s.Close()

	got, err := s.ReadHoldingRegisters(100, 4)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []uint16{100, 101, 102, 103})

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.DeepEqual(t, d.unitIDs, []uint8{3})
}

func TestSession_ReadCoils(t *testing.T) {
	d := startDevice(t)

	s, err := NewTransport(Config{IOTimeout: time.Second}).Open(d.addr(), 1)
	assert.NilError(t, err)
	defer s.Close()

	got, err := s.ReadCoils(0, 10)
	assert.NilError(t, err)
	assert.DeepEqual(t, got, []bool{true, false, true, false, true, false, true, false, true, false})
}

func TestSession_Exception(t *testing.T) {
	d := startDevice(t)

	s, err := NewTransport(Config{IOTimeout: time.Second}).Open(d.addr(), 1)
	assert.NilError(t, err)
	defer s.Close()

	_, err = s.ReadInputRegisters(0, 1)
	var mbErr *modbus.ModbusError
	assert.Assert(t, errors.As(err, &mbErr), "got %v", err)
	assert.Equal(t, mbErr.ExceptionCode, byte(modbus.ExceptionCodeIllegalDataAddress))
}

func TestSession_WriteMultiple(t *testing.T) {
	d := startDevice(t)

	s, err := NewTransport(Config{IOTimeout: time.Second}).Open(d.addr(), 1)
	assert.NilError(t, err)
	defer s.Close()

	assert.NilError(t, s.WriteMultipleCoils(0, []bool{true, false, true, true}))
	assert.NilError(t, s.WriteMultipleRegisters(0, []uint16{9, 9, 0xABCD}))

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.DeepEqual(t, d.coils, []bool{true, false, true, true})
	assert.DeepEqual(t, d.registers, []uint16{9, 9, 0xABCD})
}

func TestOpen_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	addr := ln.Addr().String()
	assert.NilError(t, ln.Close())

	_, err = NewTransport(Config{IOTimeout: time.Second}).Open(addr, 1)
	assert.Assert(t, err != nil)
}

func TestOpen_EmptyTarget(t *testing.T) {
	_, err := NewTransport(Config{}).Open("", 1)
	assert.ErrorContains(t, err, "target required")
}

func TestSession_CloseNil(t *testing.T) {
	var s *Session
	assert.NilError(t, s.Close())
}

func TestPackBits(t *testing.T) {
	got := packBits([]bool{true, false, true, true, false, false, false, false, true})
	assert.DeepEqual(t, got, []byte{0x0D, 0x01})

	back, err := unpackBits(got, 9)
	assert.NilError(t, err)
	assert.DeepEqual(t, back, []bool{true, false, true, true, false, false, false, false, true})
}

func TestUnpackBits_Short(t *testing.T) {
	_, err := unpackBits([]byte{0xFF}, 9)
	assert.Assert(t, err != nil)
}

func TestPackRegisters(t *testing.T) {
	got := packRegisters([]uint16{0x0102, 0xFFFE})
	assert.DeepEqual(t, got, []byte{0x01, 0x02, 0xFF, 0xFE})

	back, err := unpackRegisters(got, 2)
	assert.NilError(t, err)
	assert.DeepEqual(t, back, []uint16{0x0102, 0xFFFE})
}

func TestUnpackRegisters_Malformed(t *testing.T) {
	_, err := unpackRegisters([]byte{0x01, 0x02, 0x03}, 1)
	assert.ErrorContains(t, err, "not even")

	_, err = unpackRegisters([]byte{0x01, 0x02}, 2)
	assert.Assert(t, err != nil)
}

func TestNewTransport_DefaultTimeout(t *testing.T) {
	tr := NewTransport(Config{})
	assert.Equal(t, tr.cfg.IOTimeout, DefaultIOTimeout)
}

func TestClient_DisconnectAfterTimeoutIsPrompt(t *testing.T) {
	d := startSilentDevice(t, false)

	c := client.New(d.endpoint(t), NewTransport(Config{}),
		client.WithTimeouts(client.Timeouts{ReadDiscreteInputs: 200 * time.Millisecond}),
	)
	assert.NilError(t, c.Connect(context.Background()))

	_, err := c.Read(context.Background(), client.ReadDiscreteInputs, 0, 4)
	assert.Assert(t, errors.Is(err, client.ErrTimeout), "got %v", err)

	start := time.Now()
	assert.NilError(t, c.Disconnect())
	assert.Assert(t, time.Since(start) < time.Second, "disconnect took %s", time.Since(start))
	assert.Assert(t, !c.Connected())
}

func TestSession_DroppedConnectionIsNotRedialed(t *testing.T) {
	d := startSilentDevice(t, true)

	s, err := NewTransport(Config{IOTimeout: time.Second}).Open(d.ln.Addr().String(), 1)
	assert.NilError(t, err)
	defer s.Close()

	_, err = s.ReadHoldingRegisters(0, 1)
	assert.Assert(t, err != nil)

	_, err = s.ReadHoldingRegisters(0, 1)
	assert.Assert(t, errors.Is(err, errClosed), "got %v", err)
	assert.Equal(t, d.accepts.Load(), int32(1))
}

func TestSession_RequestAfterClose(t *testing.T) {
	d := startDevice(t)

	s, err := NewTransport(Config{IOTimeout: time.Second}).Open(d.addr(), 1)
	assert.NilError(t, err)
	assert.NilError(t, s.Close())
	assert.NilError(t, s.Close())

	_, err = s.ReadCoils(0, 1)
	assert.Assert(t, errors.Is(err, errClosed), "got %v", err)
}
