package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment overrides, applied before flags
const (
	EnvDataDir  = "MINISQL_DATA_DIR"
	EnvLogLevel = "MINISQL_LOG_LEVEL"
	EnvSeqURL   = "MINISQL_SEQ_URL"
)

// Config holds the runtime settings of the mini-sql shell
type Config struct {
	DataDir   string     // directory holding one sub-directory per table
	LogLevel  slog.Level // minimum level for console and Seq logs
	LogSource bool       // include source file:line in log records
	SeqURL    string     // Seq ingestion endpoint; empty disables the Seq sink
	File      string     // statement script to run instead of the interactive shell
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		DataDir:  "data",
		LogLevel: slog.LevelInfo,
	}
}

// Load builds a Config from defaults, then the environment, then args.
// For -h it prints usage to stderr and returns flag.ErrHelp.
func Load(args []string) (Config, error) {
	return load(args, os.Stderr)
}

func load(args []string, usage io.Writer) (Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvSeqURL); v != "" {
		cfg.SeqURL = v
	}
	levelText := cfg.LogLevel.String()
	if v := os.Getenv(EnvLogLevel); v != "" {
		levelText = v
	}

	fs := flag.NewFlagSet("minisql", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory holding table data")
	fs.StringVar(&levelText, "log-level", levelText, "Log level (DEBUG, INFO, WARN, ERROR)")
	fs.BoolVar(&cfg.LogSource, "log-source", cfg.LogSource, "Include source location in logs")
	fs.StringVar(&cfg.SeqURL, "seq", cfg.SeqURL, "Seq server URL for log shipping")
	fs.StringVar(&cfg.File, "file", cfg.File, "Statement file to execute (non-interactive)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(usage, "Usage of minisql:")
			fs.SetOutput(usage)
			fs.PrintDefaults()
			return Config{}, flag.ErrHelp
		}
		return Config{}, fmt.Errorf("invalid arguments: %w", err)
	}

	level, err := ParseLevel(levelText)
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data directory must not be empty")
	}
	return nil
}

// ParseLevel parses a slog level name, case-insensitively
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
