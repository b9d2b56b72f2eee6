// internal/client/read.go
package client

import (
	"context"
)

// Read issues one read request and returns one value per requested element,
// in request order.
//
// Coils and discrete inputs are widened to 1/0; holding and input registers
// are returned as read. Every call is a fresh round trip.
func (c *Client) Read(ctx context.Context, fc FunctionCode, address, quantity uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, newError(KindNotConnected, "read", fc, nil)
	}
	s := c.session

	var (
		out []uint16
		err error
	)

	switch fc {
	case ReadCoils:
		out, err = c.readBits(ctx, fc, func() ([]bool, error) {
			return s.ReadCoils(address, quantity)
		})
	case ReadDiscreteInputs:
		out, err = c.readBits(ctx, fc, func() ([]bool, error) {
			return s.ReadDiscreteInputs(address, quantity)
		})
	case ReadHoldingRegisters:
		out, err = c.readWords(ctx, fc, func() ([]uint16, error) {
			return s.ReadHoldingRegisters(address, quantity)
		})
	case ReadInputRegisters:
		out, err = c.readWords(ctx, fc, func() ([]uint16, error) {
			return s.ReadInputRegisters(address, quantity)
		})
	default:
		return nil, newError(KindUnsupportedFunction, "read", fc, nil)
	}

	if err != nil {
		c.log.Warn().
			Err(err).
			Uint8("fc", uint8(fc)).
			Uint16("address", address).
			Uint16("quantity", quantity).
			Msg("read failed")
		return nil, err
	}
	return out, nil
}

func (c *Client) readBits(ctx context.Context, fc FunctionCode, call func() ([]bool, error)) ([]uint16, error) {
	bits, err := await(ctx, c.timeouts.For(fc), call, nil)
	if err != nil {
		return nil, c.classify(ctx, "read", fc, KindProtocol, err)
	}
	return widen(bits), nil
}

func (c *Client) readWords(ctx context.Context, fc FunctionCode, call func() ([]uint16, error)) ([]uint16, error) {
	regs, err := await(ctx, c.timeouts.For(fc), call, nil)
	if err != nil {
		return nil, c.classify(ctx, "read", fc, KindProtocol, err)
	}
	return regs, nil
}

// widen maps true to 1 and false to 0.
func widen(bits []bool) []uint16 {
	out := make([]uint16, len(bits))
	for i, b := range bits {
		if b {
			out[i] = 1
		}
	}
	return out
}
