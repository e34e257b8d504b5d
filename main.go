package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gameplay-abilities/internal/config"
	"gameplay-abilities/internal/game"
	"gameplay-abilities/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// The terminal UI owns stdout, so logs only go to a file when asked.
	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	g, err := game.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()
	g.Run(ctx)
	return nil
}
