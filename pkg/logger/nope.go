package logger

import "log/slog"

// NewNope returns a logger that discards everything. It is the default
// for apps and WebSocket connections without a configured logger.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
