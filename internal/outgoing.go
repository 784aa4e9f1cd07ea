package internal

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/weave/pkg/cookie"
)

// ErrUnknownStatus is returned by SetStatusName for unrecognized reason phrases.
var ErrUnknownStatus = errors.New("weave: unknown status name")

// Outgoing collects the response state a handler sets without writing:
// extra headers, the status, a redirect target and staged cookies.
// It is the sink of the request's cookie jar.
//
// Headers and cookies are applied right before the first byte of the
// response is written. When the handler writes nothing, the status or
// redirect is flushed after it returns.
type Outgoing struct {
	Headers  http.Header
	Cookie   cookie.Instructions
	Redirect string
	Status   int
}

// NewOutgoing returns empty outbound state.
func NewOutgoing() *Outgoing {
	return &Outgoing{Headers: make(http.Header)}
}

// SetCookie stages a cookie. The instruction map is allocated on first use.
func (o *Outgoing) SetCookie(name string, in cookie.Instruction) {
	if o.Cookie == nil {
		o.Cookie = make(cookie.Instructions)
	}
	o.Cookie[name] = in
}

func (o *Outgoing) SetStatus(code int) {
	o.Status = code
}

// SetStatusName sets the status from its reason phrase, e.g. "I'm a teapot".
func (o *Outgoing) SetStatusName(name string) error {
	code, ok := StatusCode(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, name)
	}
	o.Status = code
	return nil
}

// apply copies headers and staged cookies onto h.
func (o *Outgoing) apply(h http.Header, opts ...cookie.JarOption) error {
	for k, v := range o.Headers {
		h[k] = v
	}
	if len(o.Cookie) == 0 {
		return nil
	}
	return o.Cookie.Write(h, opts...)
}

// flush writes the status line for a handler that produced no output.
func (o *Outgoing) flush(w http.ResponseWriter) {
	if o.Redirect != "" {
		code := o.Status
		if code < 300 || code > 399 {
			code = http.StatusFound
		}
		w.Header().Set("Location", o.Redirect)
		w.WriteHeader(code)
		return
	}
	code := o.Status
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
}
