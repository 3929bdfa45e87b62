package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgarden/internal/clock"
	"github.com/julianstephens/habitgarden/internal/config"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/dsn"
	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/server"
	"github.com/julianstephens/habitgarden/internal/store"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to gardend.yaml or a directory holding it. Defaults to the working directory." type:"path"`
	LogDir  string `help:"Directory for rotated log files." type:"path" default:"."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("gardend"),
		kong.Description("Habit garden sync server"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version},
	)

	if err := run(); err != nil {
		logger.Error("gardend stopped", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Debug,
		ConfigDir: filepath.Clean(CLI.LogDir),
		Prefix:    "gardend",
		Console:   true,
		FileName:  "gardend.log",
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	backend, err := dsn.Open(cfg.Storage.DSN)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer backend.Close()
	logger.Info("Storage ready", "path", backend.GetConfigPath())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clk := clock.System(nil)
	return server.New(*cfg, store.New(backend, clk), clk).Run(ctx)
}
