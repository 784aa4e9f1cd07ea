package ws

import "errors"

// Errors.
var (
	ErrClosed    = errors.New("ws: connection closed")
	ErrQueueFull = errors.New("ws: send queue full")
	ErrUpgrade   = errors.New("ws: upgrade failed")
)
