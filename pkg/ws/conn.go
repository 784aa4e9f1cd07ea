package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/weave/pkg/validator"
)

// Message types, re-exported from gorilla/websocket.
const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage
)

// Message is one inbound data frame.
type Message struct {
	Data []byte
	Type int
}

// Text returns the payload as a string.
func (m Message) Text() string {
	return string(m.Data)
}

// Decode unmarshals a JSON payload into v.
func (m Message) Decode(v any) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("ws: decode message: %w", err)
	}
	return nil
}

type frame struct {
	data []byte
	typ  int
}

// Conn is a server-side WebSocket connection. Send, Close and the value
// accessors are safe for concurrent use.
type Conn struct {
	raw         *websocket.Conn
	request     *http.Request
	cfg         *config
	log         *slog.Logger
	send        chan frame
	done        chan struct{}
	closeReq    chan struct{}
	values      map[string]any
	id          string
	closeReason string
	closeCode   int
	mu          sync.Mutex
	closeOnce   sync.Once
	closing     atomic.Bool
	aborted     atomic.Bool
}

func newConn(raw *websocket.Conn, r *http.Request, cfg *config) *Conn {
	id := uuid.NewString()
	return &Conn{
		raw:      raw,
		request:  r,
		cfg:      cfg,
		log:      cfg.logger.With(slog.String("conn_id", id)),
		send:     make(chan frame, cfg.sendQueue),
		done:     make(chan struct{}),
		closeReq: make(chan struct{}),
		values:   make(map[string]any),
		id:       id,
	}
}

// ID returns the connection's unique identifier.
func (c *Conn) ID() string {
	return c.id
}

// Request returns the upgrade request.
func (c *Conn) Request() *http.Request {
	return c.request
}

// Subprotocol returns the negotiated subprotocol.
func (c *Conn) Subprotocol() string {
	return c.raw.Subprotocol()
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

// Set stores a connection-scoped value.
func (c *Conn) Set(key string, v any) {
	c.mu.Lock()
	c.values[key] = v
	c.mu.Unlock()
}

// Get returns a connection-scoped value, or nil.
func (c *Conn) Get(key string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

// Send queues a frame for the writer. It never blocks: a full queue
// yields ErrQueueFull and a closed connection ErrClosed.
func (c *Conn) Send(typ int, data []byte) error {
	if c.closing.Load() {
		return ErrClosed
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- frame{typ: typ, data: data}:
		return nil
	default:
		return ErrQueueFull
	}
}

// SendText queues a text frame.
func (c *Conn) SendText(s string) error {
	return c.Send(websocket.TextMessage, []byte(s))
}

// SendJSON queues v encoded as a JSON text frame.
func (c *Conn) SendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ws: encode message: %w", err)
	}
	return c.Send(websocket.TextMessage, b)
}

// Buffered returns the number of queued outbound frames.
func (c *Conn) Buffered() int {
	return len(c.send)
}

// Close starts the closing handshake with code and reason. Queued frames
// are dropped. The Close callback runs once the peer answers or the close
// grace period elapses. Only the first call has an effect.
func (c *Conn) Close(code int, reason string) error {
	err := ErrClosed
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closeCode, c.closeReason = code, reason
		c.mu.Unlock()
		c.closing.Store(true)

		msg := websocket.FormatCloseMessage(code, reason)
		err = c.raw.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.cfg.writeTimeout))
		close(c.closeReq)
	})
	return err
}

func (c *Conn) serve(h *Handler) {
	c.raw.SetReadLimit(c.cfg.readLimit)
	if c.cfg.pingInterval > 0 {
		wait := 2 * c.cfg.pingInterval
		_ = c.raw.SetReadDeadline(time.Now().Add(wait))
		c.raw.SetPongHandler(func(string) error {
			if c.closing.Load() {
				return nil
			}
			return c.raw.SetReadDeadline(time.Now().Add(wait))
		})
	}

	var wg sync.WaitGroup
	wg.Go(func() { c.writeLoop(h) })

	c.log.Debug("websocket opened", slog.String("path", c.request.URL.Path))
	if h.Open != nil {
		h.Open(c)
	}

	code, reason := c.readLoop(h)

	close(c.done)
	wg.Wait()
	_ = c.raw.Close()

	c.log.Debug("websocket closed", slog.Int("code", code), slog.String("reason", reason))
	if h.Close != nil {
		h.Close(c, code, reason)
	}
}

func (c *Conn) readLoop(h *Handler) (int, string) {
	for {
		typ, data, err := c.raw.ReadMessage()
		if err != nil {
			return c.closeStatus(h, err)
		}

		if h.Schema != nil && typ == websocket.TextMessage {
			if verr := c.validate(h.Schema, data); verr != nil {
				if err := c.SendText(verr.Error()); err != nil {
					c.report(h, err)
				}
				continue
			}
		}

		if h.Message != nil {
			h.Message(c, Message{Type: typ, Data: data})
		}
	}
}

func (c *Conn) writeLoop(h *Handler) {
	var tick <-chan time.Time
	if c.cfg.pingInterval > 0 {
		t := time.NewTicker(c.cfg.pingInterval)
		defer t.Stop()
		tick = t.C
	}

	// The grace timer closes the socket instead of moving the read
	// deadline, which only the reader may touch.
	closeReq := c.closeReq
	var grace <-chan time.Time
	for {
		select {
		case <-c.done:
			return
		case <-closeReq:
			closeReq = nil
			t := time.NewTimer(c.cfg.closeGrace)
			defer t.Stop()
			grace = t.C
		case <-grace:
			_ = c.raw.Close()
			return
		case f := <-c.send:
			if c.closing.Load() {
				continue
			}
			_ = c.raw.SetWriteDeadline(time.Now().Add(c.cfg.writeTimeout))
			if err := c.raw.WriteMessage(f.typ, f.data); err != nil {
				c.abort(h, err)
				return
			}
			if len(c.send) == 0 && h.Drain != nil {
				h.Drain(c)
			}
		case <-tick:
			if err := c.raw.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.writeTimeout)); err != nil {
				c.abort(h, err)
				return
			}
		}
	}
}

// validate checks a text payload against schema. Payloads that are not
// JSON are validated as strings.
func (c *Conn) validate(schema validator.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		v = string(data)
	}
	return validator.Validate("message", schema, v, validator.WithProduction(c.cfg.production))
}

// closeStatus maps the error that ended the read loop to a close code.
// A close we initiated reports our own code and reason.
func (c *Conn) closeStatus(h *Handler, err error) (int, string) {
	if c.closing.Load() {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.closeCode, c.closeReason
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	if !c.aborted.Load() {
		c.report(h, err)
	}
	return websocket.CloseAbnormalClosure, ""
}

// abort reports a write failure and closes the socket so the reader exits.
func (c *Conn) abort(h *Handler, err error) {
	if c.closing.Load() {
		return
	}
	c.aborted.Store(true)
	c.report(h, err)
	_ = c.raw.Close()
}

func (c *Conn) report(h *Handler, err error) {
	if h.OnError != nil {
		h.OnError(c, err)
		return
	}
	c.log.Error("websocket error", slog.Any("error", err))
}
