// cmd/supervisor/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tamzrod/modbus-supervisor/internal/client/modbus"
	"github.com/tamzrod/modbus-supervisor/internal/config"
	"github.com/tamzrod/modbus-supervisor/internal/session"
	"github.com/tamzrod/modbus-supervisor/internal/telemetry"
)

func main() {
	logJSON := flag.Bool("log-json", false, "emit JSON log lines instead of console output")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: supervisor [flags] [config.yaml]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfgPath := config.DefaultPath
	if flag.NArg() > 0 {
		cfgPath = flag.Arg(0)
	}

	log := newLogger(*logJSON, *debug)

	// --------------------
	// Load + validate config
	// --------------------

	log.Info().Str("path", cfgPath).Msg("reading config")

	cfg, created, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if created {
		log.Warn().Str("path", cfgPath).Msg("config file not found, wrote template")
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	log.Info().
		Int("gateways", len(cfg.Gateways)).
		Int("endpoints", len(session.Expand(cfg.Gateways))).
		Msg("config loaded")

	if len(cfg.Gateways) == 0 {
		log.Warn().Msg("no gateways defined in config")
		return
	}

	// --------------------
	// Telemetry (best effort)
	// --------------------

	pub, err := telemetry.New(telemetry.Config{
		Kind:     cfg.Telemetry.Kind,
		Broker:   cfg.Telemetry.Broker,
		ClientID: cfg.Telemetry.ClientID,
	})
	if err != nil {
		log.Warn().Err(err).Msg("telemetry disabled")
		pub = telemetry.Nop{}
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn().Err(err).Msg("telemetry close failed")
		}
	}()

	// --------------------
	// Driver
	// --------------------

	transport := modbus.NewTransport(modbus.Config{})

	driver, err := session.Build(cfg, transport, pub, log)
	if err != nil {
		log.Fatal().Err(err).Msg("session build failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rep := driver.Run(ctx, cfg.Gateways)
	if rep.Endpoints > 0 && rep.Connected == 0 {
		log.Warn().Msg("no endpoint could be reached")
	}
}

func newLogger(asJSON, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if asJSON {
		return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
