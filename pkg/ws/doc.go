// Package ws serves WebSocket connections with lifecycle callbacks.
//
// Upgrade performs the handshake with gorilla/websocket and runs one reader
// and one writer goroutine per connection. Outbound frames go through a
// bounded queue, so Send never blocks a handler:
//
//	h := ws.Handler{
//	    Open: func(c *ws.Conn) {
//	        _ = c.SendText("welcome " + c.ID())
//	    },
//	    Message: func(c *ws.Conn, m ws.Message) {
//	        _ = c.Send(m.Type, m.Data)
//	    },
//	    Close: func(c *ws.Conn, code int, reason string) {
//	        hub.Leave(c.ID())
//	    },
//	    Schema: chatMessageSchema,
//	}
//
//	err := ws.Upgrade(w, r, h, ws.WithPingInterval(30*time.Second))
//
// With a Schema set, text frames are decoded as JSON and validated before
// Message runs; an invalid frame is answered with the validation error
// payload. Connection ids are random UUIDs.
package ws
