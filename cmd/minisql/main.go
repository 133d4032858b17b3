package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/leengari/mini-sql/internal/config"
	"github.com/leengari/mini-sql/internal/engine"
	"github.com/leengari/mini-sql/internal/logging"
	"github.com/leengari/mini-sql/internal/repl"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, closeFn := logging.SetupLogger(cfg)
	defer closeFn()

	slog.SetDefault(logger)

	eng, err := engine.Open(cfg.DataDir, logger)
	if err != nil {
		slog.Error("failed to open data directory", "data_dir", cfg.DataDir, "error", err)
		return 1
	}
	eng.AddObserver(engine.NewLoggingObserver(logger))

	shell := repl.New(eng, os.Stdout)

	if cfg.File != "" {
		slog.Info("Running statement file...", "file", cfg.File)
		if err := shell.RunFile(cfg.File); err != nil {
			slog.Error("statement file failed", "file", cfg.File, "error", err)
			return 1
		}
		return 0
	}

	slog.Debug("Starting REPL mode...")
	if err := shell.Run(os.Stdin); err != nil {
		slog.Error("shell stopped", "error", err)
		return 1
	}
	return 0
}
