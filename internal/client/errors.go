// internal/client/errors.go
package client

import (
	"errors"
	"fmt"
)

// Kind classifies every failure the client reports.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindNotConnected
	KindTimeout
	KindProtocol
	KindInvalidArgument
	KindUnsupportedFunction
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindNotConnected:
		return "not connected"
	case KindTimeout:
		return "timeout"
	case KindProtocol:
		return "protocol error"
	case KindInvalidArgument:
		return "invalid argument"
	case KindUnsupportedFunction:
		return "unsupported function"
	case KindConnection:
		return "connection error"
	}
	return "unknown"
}

// Error is returned by every Client operation.
// Compare with errors.Is against the Err* sentinels, or use KindOf.
type Error struct {
	Kind Kind
	Op   string       // connect, read, write, disconnect
	Code FunctionCode // zero for connect and disconnect
	Err  error        // underlying cause, may be nil
}

// Sentinels for errors.Is. They carry only a Kind.
var (
	ErrNotConnected        = &Error{Kind: KindNotConnected}
	ErrTimeout             = &Error{Kind: KindTimeout}
	ErrProtocol            = &Error{Kind: KindProtocol}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrUnsupportedFunction = &Error{Kind: KindUnsupportedFunction}
	ErrConnection          = &Error{Kind: KindConnection}
)

func (e *Error) Error() string {
	msg := "modbus client"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" fc=0x%02X", uint8(e.Code))
	}
	msg += ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op string, fc FunctionCode, cause error) *Error {
	return &Error{Kind: kind, Op: op, Code: fc, Err: cause}
}

func invalidArgument(op string, fc FunctionCode, format string, args ...interface{}) *Error {
	return newError(KindInvalidArgument, op, fc, fmt.Errorf(format, args...))
}

// timeoutError is the interface net.Error and friends expose.
type timeoutError interface {
	Timeout() bool
}

func isTransportTimeout(err error) bool {
	var te timeoutError
	return errors.As(err, &te) && te.Timeout()
}
