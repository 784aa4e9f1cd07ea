package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"         yaml:"dsn"`
	Environment string `env:"SENTRY_ENVIRONMENT" yaml:"environment" envDefault:"production"`
	Release     string `env:"SENTRY_RELEASE"     yaml:"release"`

	// MinLevel is the lowest level stored as a Sentry log; errors always
	// create issues. Accepts warn or error. Defaults to warn.
	MinLevel string `env:"SENTRY_MIN_LEVEL" yaml:"min_level" envDefault:"warn"`
}

// NewWithSentry creates a logger that writes to stdout and Sentry.
// An empty DSN yields a stdout-only logger.
func NewWithSentry(cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	return New(Config{Sentry: cfg}, extractors...)
}

// FlushSentry waits for buffered Sentry events until ctx is done. Its
// signature fits weave.ShutdownHook.
func FlushSentry(ctx context.Context) error {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	sentry.Flush(timeout)
	return nil
}

func newWithSentry(stdout slog.Handler, cfg SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize Sentry", slog.Any("error", err))
		return slog.New(NewLogHandlerDecorator(stdout, extractors...))
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if ParseLevel(cfg.MinLevel) >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(fanout{stdout, remote}, extractors...))
}
