// internal/client/modbus/conn.go
package modbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

const (
	mbapHeaderSize = 7
	mbapMaxLength  = 260
)

// errClosed is returned by send once the connection has been closed or
// dropped. The connection is never redialed.
var errClosed = errors.New("modbus tcp: connection closed")

// conn is a goburrow Transporter bound to one socket for its whole life.
//
// Requests are serialized by mu. close does not take mu: it shuts the socket
// directly, which fails any request still blocked on it.
type conn struct {
	nc      net.Conn
	timeout time.Duration
	logger  *log.Logger

	mu     sync.Mutex
	closed atomic.Bool
	once   sync.Once
}

func dial(target string, timeout time.Duration, logger *log.Logger) (*conn, error) {
	d := net.Dialer{Timeout: timeout}
	nc, err := d.Dial("tcp", target)
	if err != nil {
		return nil, err
	}
	return &conn{nc: nc, timeout: timeout, logger: logger}, nil
}

// Send writes one ADU and reads one response frame.
// Any socket error closes the connection for good.
func (c *conn) Send(req []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, errClosed
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		_ = c.close()
		return nil, err
	}
	return resp, nil
}

func (c *conn) roundTrip(req []byte) ([]byte, error) {
	var deadline time.Time
	if c.timeout > 0 {
		deadline = time.Now().Add(c.timeout)
	}
	if err := c.nc.SetDeadline(deadline); err != nil {
		return nil, err
	}

	c.logf("modbus: sending % x", req)
	if _, err := c.nc.Write(req); err != nil {
		return nil, err
	}

	var data [mbapMaxLength]byte
	if _, err := io.ReadFull(c.nc, data[:mbapHeaderSize]); err != nil {
		return nil, err
	}

	// length counts the unit id, which is already part of the header
	length := int(binary.BigEndian.Uint16(data[4:6]))
	if length <= 0 || length > mbapMaxLength-mbapHeaderSize+1 {
		return nil, fmt.Errorf("modbus tcp: response length %d out of range", length)
	}
	end := mbapHeaderSize + length - 1
	if _, err := io.ReadFull(c.nc, data[mbapHeaderSize:end]); err != nil {
		return nil, err
	}

	c.logf("modbus: received % x", data[:end])
	return data[:end], nil
}

func (c *conn) close() error {
	var err error
	c.once.Do(func() {
		c.closed.Store(true)
		err = c.nc.Close()
	})
	return err
}

func (c *conn) logf(format string, v ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, v...)
	}
}
