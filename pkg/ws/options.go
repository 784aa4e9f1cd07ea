package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/weave/pkg/logger"
)

const (
	defaultSendQueue    = 64
	defaultWriteTimeout = 10 * time.Second
	defaultCloseGrace   = time.Second
	defaultReadLimit    = 1 << 20 // 1MB
)

type config struct {
	checkOrigin    func(*http.Request) bool
	logger         *slog.Logger
	responseHeader http.Header
	subprotocols   []string
	readLimit      int64
	sendQueue      int
	readBuffer     int
	writeBuffer    int
	pingInterval   time.Duration
	writeTimeout   time.Duration
	closeGrace     time.Duration
	production     bool
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:       logger.NewNope(),
		readLimit:    defaultReadLimit,
		sendQueue:    defaultSendQueue,
		writeTimeout: defaultWriteTimeout,
		closeGrace:   defaultCloseGrace,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures Upgrade.
type Option func(*config)

// WithLogger sets the logger for connection lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithReadLimit sets the maximum inbound message size in bytes.
func WithReadLimit(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.readLimit = n
		}
	}
}

// WithSendQueue sets how many outbound messages may wait for the writer.
func WithSendQueue(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.sendQueue = n
		}
	}
}

// WithBufferSizes sets the read and write buffer sizes of the upgrader.
func WithBufferSizes(read, write int) Option {
	return func(c *config) {
		c.readBuffer = read
		c.writeBuffer = write
	}
}

// WithPingInterval enables keepalive pings. A peer that does not answer
// within two intervals is disconnected.
func WithPingInterval(d time.Duration) Option {
	return func(c *config) {
		c.pingInterval = d
	}
}

// WithWriteTimeout bounds every frame write. Defaults to 10 seconds.
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithCloseGrace sets how long Close waits for the peer to answer the
// close frame. Defaults to one second.
func WithCloseGrace(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.closeGrace = d
		}
	}
}

// WithOriginCheck sets the handshake origin check.
func WithOriginCheck(fn func(*http.Request) bool) Option {
	return func(c *config) {
		c.checkOrigin = fn
	}
}

// WithAllowAnyOrigin accepts handshakes from any origin.
func WithAllowAnyOrigin() Option {
	return WithOriginCheck(func(*http.Request) bool { return true })
}

// WithSubprotocols sets the server's supported subprotocols in preference order.
func WithSubprotocols(protocols ...string) Option {
	return func(c *config) {
		c.subprotocols = protocols
	}
}

// WithResponseHeader adds headers, such as Set-Cookie, to the handshake response.
func WithResponseHeader(h http.Header) Option {
	return func(c *config) {
		c.responseHeader = h
	}
}

// WithProduction renders schema violations in the redacted production format.
func WithProduction(production bool) Option {
	return func(c *config) {
		c.production = production
	}
}
