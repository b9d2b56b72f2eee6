// internal/session/runner.go
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-supervisor/internal/client"
	"github.com/tamzrod/modbus-supervisor/internal/config"
	"github.com/tamzrod/modbus-supervisor/internal/device"
	"github.com/tamzrod/modbus-supervisor/internal/status"
)

// Run processes every gateway and every station behind it, strictly one
// endpoint at a time. A failing endpoint is logged and skipped; Run itself
// never fails. It stops early only when ctx ends.
func (d *Driver) Run(ctx context.Context, gateways []config.GatewayConfig) Report {
	rep := Report{
		RunID:    d.runID.String(),
		Gateways: len(gateways),
	}

	if len(gateways) == 0 {
		d.log.Warn().Msg("no gateways configured")
		return rep
	}

	for _, g := range gateways {
		eps := Endpoints(g)

		glog := d.log.With().Str("gateway", fmt.Sprintf("%s:%d", g.IP, g.Port)).Logger()
		glog.Info().Int("stations", len(eps)).Msg("processing gateway")

		if len(eps) == 0 {
			glog.Warn().Msg("gateway has no slave ids, skipping")
			continue
		}

		for _, ep := range eps {
			if err := ctx.Err(); err != nil {
				d.log.Warn().Err(err).Msg("run interrupted")
				return rep
			}
			rep.add(d.RunEndpoint(ctx, ep))
		}
	}

	d.log.Info().
		Int("endpoints", rep.Endpoints).
		Int("connected", rep.Connected).
		Int("ops_ok", rep.OperationsOK).
		Int("ops_failed", rep.OperationsFailed).
		Msg("all devices processed")

	return rep
}

// RunEndpoint performs one connect -> operate -> disconnect cycle.
// Operation failures do not stop the cycle; disconnect always runs once
// connect succeeded.
func (d *Driver) RunEndpoint(ctx context.Context, ep device.Endpoint) EndpointResult {
	c := d.factory(ep)
	sid := c.ID().String()

	log := d.log.With().
		Str("endpoint", ep.String()).
		Str("session", sid).
		Logger()

	res := EndpointResult{Endpoint: ep, Session: sid}
	snap := status.Snapshot{
		RunID:    d.runID.String(),
		Session:  sid,
		Endpoint: fmt.Sprintf("%s:%d", ep.Address, ep.Port),
		Station:  ep.StationID,
		Health:   status.HealthUnknown,
	}

	log.Info().Msg("connecting")
	if err := c.Connect(ctx); err != nil {
		log.Error().Err(err).Msg("connect failed")
		res.ConnectErr = err
		snap.Health = status.HealthUnreachable
		snap.Fail(err)
		d.finish(&res, snap, log)
		return res
	}
	log.Info().Msg("connected")
	snap.Health = status.HealthOK

	if err := sleep(ctx, d.cfg.Settle); err != nil {
		snap.Fail(err)
		res.Skipped = len(d.cfg.Operations)
		d.disconnect(c, &res, &snap, log)
		d.finish(&res, snap, log)
		return res
	}

	for i, op := range d.cfg.Operations {
		or := d.runOperation(ctx, c, op, log)
		res.Operations = append(res.Operations, or)

		if or.Err == nil {
			snap.OperationsOK++
			continue
		}
		snap.OperationsFailed++
		snap.Fail(or.Err)

		if ctx.Err() != nil {
			res.Skipped = len(d.cfg.Operations) - i - 1
			break
		}

		if d.cfg.ReconnectOnTimeout && errors.Is(or.Err, client.ErrTimeout) {
			if err := d.reconnect(ctx, c, log); err != nil {
				snap.Fail(err)
				res.Skipped = len(d.cfg.Operations) - i - 1
				break
			}
		}
	}

	d.disconnect(c, &res, &snap, log)
	d.finish(&res, snap, log)
	return res
}

func (d *Driver) runOperation(ctx context.Context, c Client, op Operation, log zerolog.Logger) OperationResult {
	out := OperationResult{Operation: op}
	start := time.Now()

	ev := log.With().
		Str("op", op.FC.String()).
		Uint16("address", op.Address).
		Uint16("quantity", op.Quantity).
		Logger()

	if op.FC.IsRead() {
		out.Values, out.Err = c.Read(ctx, op.FC, op.Address, op.Quantity)
	} else {
		out.Err = c.Write(ctx, op.FC, op.Address, op.Quantity, op.Values)
	}
	out.Took = time.Since(start)

	switch {
	case out.Err != nil:
		ev.Error().Err(out.Err).Str("kind", status.ErrorKind(out.Err)).Msg("operation failed")
	case op.FC.IsRead():
		ev.Info().Uints16("values", out.Values).Dur("took", out.Took).Msg("read ok")
	default:
		ev.Info().Uints16("values", op.Values).Dur("took", out.Took).Msg("write ok")
	}
	return out
}

func (d *Driver) reconnect(ctx context.Context, c Client, log zerolog.Logger) error {
	log.Warn().Msg("operation timed out, reconnecting")
	if err := c.Disconnect(); err != nil {
		log.Warn().Err(err).Msg("disconnect before reconnect failed")
	}
	if err := c.Connect(ctx); err != nil {
		log.Error().Err(err).Msg("reconnect failed, skipping remaining operations")
		return err
	}
	return sleep(ctx, d.cfg.Settle)
}

func (d *Driver) disconnect(c Client, res *EndpointResult, snap *status.Snapshot, log zerolog.Logger) {
	if err := c.Disconnect(); err != nil {
		log.Warn().Err(err).Msg("disconnect failed")
		res.DisconnectErr = err
		snap.Fail(err)
		return
	}
	log.Info().Msg("disconnected")
}

// finish stamps and publishes the snapshot. Publish failures are logged only.
func (d *Driver) finish(res *EndpointResult, snap status.Snapshot, log zerolog.Logger) {
	snap.At = time.Now().UTC()
	res.Status = snap

	if d.cfg.Topic == "" {
		return
	}

	payload, err := status.Encode(snap)
	if err != nil {
		log.Warn().Err(err).Msg("status encode failed")
		return
	}
	topic := fmt.Sprintf("%s/%s/%d/%d", d.cfg.Topic, res.Endpoint.Address, res.Endpoint.Port, res.Endpoint.StationID)
	if err := d.pub.Publish(topic, payload); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("status publish failed")
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
