// Package logger builds slog loggers for weave applications.
//
// New creates a JSON (or text) logger from Config and attaches context
// extractors, which add request-scoped attributes such as request_id to
// every record logged with a context:
//
//	log := logger.New(cfg.Logger, middlewares.RequestIDExtractor())
//	app := weave.New(weave.WithCustomLogger(log))
//
// Handlers log through c.LogInfo and friends, which pass the request
// context, so extractors see values set by middleware.
//
// # Configuration
//
// Config carries env and yaml tags and loads with package config:
//
//	cfg := config.MustLoad[logger.Config]() // LOG_LEVEL, LOG_FORMAT, SENTRY_DSN
//
// # Sentry
//
// With a Sentry DSN, records go to stdout and to Sentry: errors create
// issues and warnings are stored as logs. Initialization failures fall back
// to stdout. Flush buffered events on shutdown:
//
//	app.Run(":8080", weave.ShutdownHook(logger.FlushSentry))
//
// # Custom Extractors
//
// FromContext covers string values stored under a context key. Anything
// else can implement ContextExtractor directly:
//
//	func userID(ctx context.Context) (slog.Attr, bool) {
//	    if u, ok := ctx.Value(userKey{}).(*User); ok {
//	        return slog.Int64("user_id", u.ID), true
//	    }
//	    return slog.Attr{}, false
//	}
package logger
