package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logger settings loadable from the environment or a YAML file.
type Config struct {
	// Output defaults to os.Stdout.
	Output io.Writer `env:"-" yaml:"-"`

	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `env:"LOG_LEVEL" envDefault:"info" yaml:"level"`

	// Format is "json" or "text". Defaults to json.
	Format string `env:"LOG_FORMAT" envDefault:"json" yaml:"format"`

	Sentry SentryConfig `yaml:"sentry"`
}

// New creates a logger from cfg with optional context extractors.
// When cfg.Sentry.DSN is set, logs are also sent to Sentry.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	handler := newHandler(cfg)
	if cfg.Sentry.DSN != "" {
		return newWithSentry(handler, cfg.Sentry, extractors...)
	}
	return slog.New(NewLogHandlerDecorator(handler, extractors...))
}

// ParseLevel maps debug, info, warn(ing) and error (any case) to a slog.Level.
// Anything else is info.
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

func newHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
