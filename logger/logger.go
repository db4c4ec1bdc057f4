package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type (
	// LogConfiguration is the parsed logger configuration, usually bound
	// from flags / env by the CLI layer.
	LogConfiguration struct {
		Level      string `yaml:"defaultLevel"`
		Format     string `yaml:"format"`
		OutputPath string `yaml:"outputPath"`

		// testWriter overrides the output destination, used by tests.
		testWriter io.Writer
	}
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns logger for the given configuration.
func New(cfg *LogConfiguration) (*slog.Logger, error) {
	if cfg == nil {
		cfg = &LogConfiguration{}
	}
	cfg.initDefaults()

	out, err := cfg.output()
	if err != nil {
		return nil, fmt.Errorf("opening log output: %w", err)
	}

	level, err := cfg.logLevel()
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case FormatText:
		h = slog.NewTextHandler(out, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return slog.New(h), nil
}

// NOP returns a logger which discards everything sent to it.
func NOP() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(100)}))
}

func (cfg *LogConfiguration) initDefaults() {
	if cfg.Level == "" {
		cfg.Level = slog.LevelInfo.String()
	}
	if cfg.Format == "" {
		cfg.Format = FormatText
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "stderr"
	}
}

func (cfg *LogConfiguration) logLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(cfg.Level))
	return level, err
}

func (cfg *LogConfiguration) output() (io.Writer, error) {
	if cfg.testWriter != nil {
		return cfg.testWriter, nil
	}
	switch cfg.OutputPath {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard":
		return io.Discard, nil
	}
	return os.OpenFile(cfg.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
