package middlewares

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/weave/internal"
)

// DefaultStackSize caps the captured stack trace, in bytes.
const DefaultStackSize = 4 << 10

// PanicError is returned in place of a recovered panic. It renders as a
// plain 500; the value and stack only reach the logs.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string   { return fmt.Sprintf("panic: %v", e.Value) }
func (e *PanicError) StatusCode() int { return http.StatusInternalServerError }

// Unwrap exposes the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

func AsPanicError(err error) (*PanicError, bool) {
	var pe *PanicError
	ok := errors.As(err, &pe)
	return pe, ok
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverConfig)

type recoverConfig struct {
	stackSize int
}

// WithStackSize caps the captured stack at n bytes.
func WithStackSize(n int) RecoverOption {
	return func(cfg *recoverConfig) {
		if n > 0 {
			cfg.stackSize = n
		}
	}
}

// WithoutStack skips stack capture.
func WithoutStack() RecoverOption {
	return func(cfg *recoverConfig) {
		cfg.stackSize = 0
	}
}

// Recover converts panics in later middleware and handlers into a
// *PanicError. http.ErrAbortHandler is re-raised so net/http can drop the
// connection.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}
				pe := &PanicError{Value: v}
				if cfg.stackSize > 0 {
					buf := make([]byte, cfg.stackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
				}
				c.LogError("panic recovered",
					slog.Any("panic", v),
					slog.String("path", c.Path()),
					slog.String("stack", string(pe.Stack)),
				)
				err = pe
			}()
			return next(c)
		}
	}
}
