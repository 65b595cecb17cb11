package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/amirhadar/pdep-go/cmd/pdep/commands"
	"github.com/amirhadar/pdep-go/pkg/telemetry"
)

// Version information (set via ldflags during build)
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := setupLogging(); err != nil {
		panic(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("received interrupt signal, shutting down")
		cancel()
	}()

	if err := commands.Execute(ctx, Version, Commit); err != nil {
		log.Error().Err(err).Msg("command execution failed")
		os.Exit(1)
	}
}

// setupLogging builds pdep's global logger through pkg/telemetry, so the
// same Level/Format/Output/sampling knobs every component in this tree
// configures logging with are available here, driven by $LOG_LEVEL/
// $LOG_FORMAT rather than a hand-rolled zerolog.ConsoleWriter.
func setupLogging() error {
	cfg := telemetry.DefaultConfig()
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	cfg.Logging.Output = "stderr"

	logger, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	log.Logger = logger.Zerolog()
	return nil
}
