// internal/client/write.go
package client

import (
	"context"
)

// Write issues one write request. Shape rules are checked before any I/O:
//
//	0x05, 0x06  quantity must be 1 and one value is required
//	0x0F, 0x10  len(values) must equal quantity
//
// For coil codes a value of 0 is OFF and anything else is ON.
func (c *Client) Write(ctx context.Context, fc FunctionCode, address, quantity uint16, values []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return newError(KindNotConnected, "write", fc, nil)
	}
	s := c.session

	var call func() (struct{}, error)

	switch fc {
	case WriteSingleCoil:
		if err := checkSingle(fc, quantity, values); err != nil {
			return err
		}
		on := values[0] >= 1
		call = ack(func() error { return s.WriteSingleCoil(address, on) })

	case WriteSingleRegister:
		if err := checkSingle(fc, quantity, values); err != nil {
			return err
		}
		v := values[0]
		call = ack(func() error { return s.WriteSingleRegister(address, v) })

	case WriteMultipleCoils:
		if err := checkMultiple(fc, quantity, values); err != nil {
			return err
		}
		states := coilStates(values)
		call = ack(func() error { return s.WriteMultipleCoils(address, states) })

	case WriteMultipleRegisters:
		if err := checkMultiple(fc, quantity, values); err != nil {
			return err
		}
		regs := append([]uint16(nil), values...)
		call = ack(func() error { return s.WriteMultipleRegisters(address, regs) })

	default:
		return newError(KindUnsupportedFunction, "write", fc, nil)
	}

	if _, err := await(ctx, c.timeouts.For(fc), call, nil); err != nil {
		err = c.classify(ctx, "write", fc, KindProtocol, err)
		c.log.Warn().
			Err(err).
			Uint8("fc", uint8(fc)).
			Uint16("address", address).
			Uint16("quantity", quantity).
			Msg("write failed")
		return err
	}
	return nil
}

func checkSingle(fc FunctionCode, quantity uint16, values []uint16) error {
	if quantity != 1 {
		return invalidArgument("write", fc, "%s requires quantity 1, got %d", fc, quantity)
	}
	if len(values) == 0 {
		return invalidArgument("write", fc, "%s requires one value, got none", fc)
	}
	return nil
}

func checkMultiple(fc FunctionCode, quantity uint16, values []uint16) error {
	if len(values) != int(quantity) {
		return invalidArgument("write", fc, "%s: %d values for quantity %d", fc, len(values), quantity)
	}
	return nil
}

// coilStates maps each value onto a coil state: 0 is OFF, anything else ON.
func coilStates(values []uint16) []bool {
	out := make([]bool, len(values))
	for i, v := range values {
		out[i] = v >= 1
	}
	return out
}

func ack(fn func() error) func() (struct{}, error) {
	return func() (struct{}, error) {
		return struct{}{}, fn()
	}
}
