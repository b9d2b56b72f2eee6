// internal/telemetry/telemetry_test.go
package telemetry

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func TestNew_EmptyKindIsNop(t *testing.T) {
	p, err := New(Config{})
	assert.NilError(t, err)

	_, ok := p.(Nop)
	assert.Assert(t, ok)
	assert.NilError(t, p.Publish("a/b", []byte("x")))
	assert.NilError(t, p.Close())
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(Config{Kind: "kafka"})
	assert.ErrorContains(t, err, `unknown kind "kafka"`)
}

func TestSubject(t *testing.T) {
	cases := map[string]string{
		"modbus/status":                "modbus.status",
		"/modbus/status/":              "modbus.status",
		"modbus/status/10.0.0.5:502/3": "modbus.status.10_0_0_5:502.3",
		"plain":                        "plain",
		"with space/x":                 "with_space.x",
	}
	for in, want := range cases {
		assert.Equal(t, Subject(in), want, "topic %q", in)
	}
}

// stallingNATS completes the client handshake and then never answers another
// PING, so every later flush times out.
func stallingNATS(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	assert.NilError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		_, _ = conn.Write([]byte(`INFO {"server_id":"test","version":"2.0.0","max_payload":1048576}` + "\r\n"))

		sc := bufio.NewScanner(conn)
		answered := false
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) == "PING" && !answered {
				answered = true
				_, _ = conn.Write([]byte("PONG\r\n"))
			}
		}
	}()

	return "nats://" + ln.Addr().String()
}

func TestNATS_CloseReportsFlushFailure(t *testing.T) {
	p, err := New(Config{Kind: "nats", Broker: stallingNATS(t), ClientID: "test", Timeout: 200 * time.Millisecond})
	assert.NilError(t, err)

	assert.NilError(t, p.Publish("modbus/status/x", []byte("{}")))

	start := time.Now()
	err = p.Close()
	assert.ErrorContains(t, err, "nats flush")
	assert.Assert(t, time.Since(start) < 2*time.Second)
}
