// Package logger configures structured logging for the mentoring service.
// All components log through log/slog; this package builds the shared
// handler and the service-wide attributes.
// No external dependencies - uses only standard library.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the log output format.
type Format string

const (
	// FormatJSON emits one JSON object per line. Default in production.
	FormatJSON Format = "json"
	// FormatText emits human-readable key=value lines. Default in development.
	FormatText Format = "text"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level to log (debug, info, warn, error).
	Level string

	// Format selects JSON or text output.
	Format Format

	// Service is attached to every record as the "service" attribute.
	Service string

	// Version is attached to every record as the "version" attribute.
	Version string

	// AddSource includes the file:line of the log call.
	AddSource bool

	// Output defaults to os.Stdout.
	Output io.Writer
}

// New builds a configured *slog.Logger.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case FormatText:
		handler = slog.NewTextHandler(out, opts)
	default:
		handler = slog.NewJSONHandler(out, opts)
	}

	log := slog.New(handler)
	if cfg.Service != "" {
		log = log.With(slog.String("service", cfg.Service))
	}
	if cfg.Version != "" {
		log = log.With(slog.String("version", cfg.Version))
	}
	return log
}

// Setup builds the logger and installs it as the slog default, so packages
// that fall back to slog.Default() share the same handler.
func Setup(cfg Config) *slog.Logger {
	log := New(cfg)
	slog.SetDefault(log)
	return log
}

// ParseLevel parses a level name, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
