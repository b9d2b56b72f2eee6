// internal/client/function.go
package client

import "fmt"

// FunctionCode selects the semantics of one request.
// Only the constants below are dispatched; every other value is rejected
// with ErrUnsupportedFunction by both Read and Write.
type FunctionCode uint8

const (
	ReadCoils              FunctionCode = 0x01
	ReadDiscreteInputs     FunctionCode = 0x02
	ReadHoldingRegisters   FunctionCode = 0x03
	ReadInputRegisters     FunctionCode = 0x04
	WriteSingleCoil        FunctionCode = 0x05
	WriteSingleRegister    FunctionCode = 0x06
	WriteMultipleCoils     FunctionCode = 0x0F
	WriteMultipleRegisters FunctionCode = 0x10
)

// ParseFunctionCode maps a raw code onto a supported FunctionCode.
func ParseFunctionCode(code uint8) (FunctionCode, error) {
	fc := FunctionCode(code)
	if !fc.IsRead() && !fc.IsWrite() {
		return 0, &Error{Kind: KindUnsupportedFunction, Op: "parse", Code: fc}
	}
	return fc, nil
}

// IsRead reports whether fc is one of the four read codes.
func (fc FunctionCode) IsRead() bool {
	switch fc {
	case ReadCoils, ReadDiscreteInputs, ReadHoldingRegisters, ReadInputRegisters:
		return true
	}
	return false
}

// IsWrite reports whether fc is one of the four write codes.
func (fc FunctionCode) IsWrite() bool {
	switch fc {
	case WriteSingleCoil, WriteSingleRegister, WriteMultipleCoils, WriteMultipleRegisters:
		return true
	}
	return false
}

func (fc FunctionCode) String() string {
	switch fc {
	case ReadCoils:
		return "read coils"
	case ReadDiscreteInputs:
		return "read discrete inputs"
	case ReadHoldingRegisters:
		return "read holding registers"
	case ReadInputRegisters:
		return "read input registers"
	case WriteSingleCoil:
		return "write single coil"
	case WriteSingleRegister:
		return "write single register"
	case WriteMultipleCoils:
		return "write multiple coils"
	case WriteMultipleRegisters:
		return "write multiple registers"
	}
	return fmt.Sprintf("fc 0x%02X", uint8(fc))
}
