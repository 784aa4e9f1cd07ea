package ws

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/weave/pkg/validator"
)

// Handler holds the per-connection callbacks. Every field is optional.
type Handler struct {
	// Open runs once the handshake completes. Messages may be sent from it.
	Open func(c *Conn)

	// Message runs for every inbound data frame, in order, on the read goroutine.
	Message func(c *Conn, msg Message)

	// Drain runs on the write goroutine whenever the send queue empties.
	Drain func(c *Conn)

	// Close runs once with the close code and reason. A connection that
	// dropped without a close frame reports 1006.
	Close func(c *Conn, code int, reason string)

	// Schema validates text messages decoded as JSON. Violations are sent
	// back as a validation error payload and Message is not called.
	Schema validator.Schema

	// OnError receives read and write failures. Defaults to logging them.
	OnError func(c *Conn, err error)
}

// Upgrade switches the request to the WebSocket protocol and serves the
// connection with h until it closes. On a failed handshake the response
// has already been written and the returned error wraps ErrUpgrade.
//
// Example:
//
//	r.GET("/ws", func(c weave.Context) error {
//	    return ws.Upgrade(c.Response(), c.Request(), chat.Handler())
//	})
func Upgrade(w http.ResponseWriter, r *http.Request, h Handler, opts ...Option) error {
	cfg := newConfig(opts)

	up := websocket.Upgrader{
		ReadBufferSize:   cfg.readBuffer,
		WriteBufferSize:  cfg.writeBuffer,
		HandshakeTimeout: cfg.writeTimeout,
		Subprotocols:     cfg.subprotocols,
		CheckOrigin:      cfg.checkOrigin,
	}

	raw, err := up.Upgrade(w, r, cfg.responseHeader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpgrade, err)
	}

	newConn(raw, r, cfg).serve(&h)
	return nil
}

// IsUpgrade reports whether r asks for a WebSocket upgrade.
func IsUpgrade(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r)
}
