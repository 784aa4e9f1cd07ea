package middlewares

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/weave/internal"
	"github.com/dmitrymomot/weave/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are checked in order for an upstream request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDConfig)

type requestIDConfig struct {
	generate       func() string
	responseHeader string
	headers        []string
}

// WithRequestIDHeaders replaces DefaultRequestIDHeaders.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		cfg.headers = headers
	}
}

// WithRequestIDGenerator replaces uuid.NewString.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		if gen != nil {
			cfg.generate = gen
		}
	}
}

// WithRequestIDResponseHeader names the response header carrying the ID.
// An empty name disables it.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		cfg.responseHeader = header
	}
}

// RequestID tags each request with an ID. An upstream ID is reused when it
// is at most 128 printable ASCII bytes; otherwise a new one is generated.
// The ID is stored on the request context and sent back in X-Request-ID.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := requestIDConfig{
		generate:       uuid.NewString,
		responseHeader: "X-Request-ID",
		headers:        DefaultRequestIDHeaders,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	sources := make([]internal.ExtractorSource, len(cfg.headers))
	for i, h := range cfg.headers {
		sources[i] = internal.FromHeader(h)
	}
	upstream := internal.NewExtractor(sources...)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			id, ok := upstream.Extract(c)
			if !ok || !validRequestID(id) {
				id = cfg.generate()
			}
			c.Set(requestIDKey{}, id)
			if cfg.responseHeader != "" {
				c.Outgoing().Headers.Set(cfg.responseHeader, id)
			}
			return next(c)
		}
	}
}

func validRequestID(s string) bool {
	if len(s) > 128 {
		return false
	}
	for _, b := range []byte(s) {
		if b <= ' ' || b > '~' {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID set by RequestID, or "".
func GetRequestID(c internal.Context) string {
	id, _ := c.Get(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds request_id to records logged with a request
// context.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.FromContext(requestIDKey{}, "request_id")
}
