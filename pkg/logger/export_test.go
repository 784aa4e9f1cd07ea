package logger

import "log/slog"

func Fanout(handlers ...slog.Handler) slog.Handler {
	return fanout(handlers)
}
