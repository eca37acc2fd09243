// Package main runs the room validation HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"roomcheck/internal/config"
	"roomcheck/internal/loader"
	"roomcheck/internal/logger"
	"roomcheck/internal/server"
	"roomcheck/internal/validator"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting roomcheck server", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	store, closeStore, err := loader.Open(ctx, cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	l := loader.New(store, validator.New(),
		loader.WithConcurrency(cfg.Validator.BatchConcurrency),
		loader.WithLogger(log),
	)

	return server.New(l, cfg, log).Run(ctx)
}
