package core

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogFormat selects the slog handler.
type LogFormat int

const (
	FormatText LogFormat = iota
	FormatJSON
)

// ParseFormat parses "text" or "json".
func ParseFormat(s string) (LogFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// ParseLevel parses a slog level name. Empty means warn: the CLI is quiet
// unless asked.
func ParseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelWarn, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

type loggerConfig struct {
	format LogFormat
	level  slog.Leveler
	output io.Writer
}

// LoggerOption configures NewLogger.
type LoggerOption func(*loggerConfig)

// WithLogFormat sets the output format.
func WithLogFormat(f LogFormat) LoggerOption {
	return func(c *loggerConfig) { c.format = f }
}

// WithLogLevel sets the minimum level.
func WithLogLevel(l slog.Leveler) LoggerOption {
	return func(c *loggerConfig) { c.level = l }
}

// WithLogOutput sets the destination writer.
func WithLogOutput(w io.Writer) LoggerOption {
	return func(c *loggerConfig) { c.output = w }
}

// NewLogger builds the process logger. Defaults: text, warn, stderr.
func NewLogger(opts ...LoggerOption) *slog.Logger {
	cfg := &loggerConfig{
		format: FormatText,
		level:  slog.LevelWarn,
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       cfg.level,
		ReplaceAttr: replaceTimeAttr,
	}
	var h slog.Handler
	if cfg.format == FormatJSON {
		h = slog.NewJSONHandler(cfg.output, handlerOpts)
	} else {
		h = slog.NewTextHandler(cfg.output, handlerOpts)
	}
	return slog.New(h)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func replaceTimeAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.Format(time.RFC3339))
		}
	}
	return a
}
