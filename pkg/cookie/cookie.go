package cookie

import (
	"net/http"
	"time"
)

// State is the snapshot a mutation Option works on.
type State struct {
	Value any
	Attributes
}

// Option patches a cookie State.
type Option func(*State)

// Cookie is one jar entry. Every change that alters its value or
// attributes is pushed to the bound Setter before the call returns.
// A Cookie is not safe for concurrent use.
type Cookie struct {
	value  any
	setter Setter
	jar    *Jar
	name   string
	attrs  Attributes
}

// New creates an unbound cookie. It starts synchronizing once a Jar
// binds it through Put.
func New(value any, attrs Attributes) *Cookie {
	return &Cookie{value: value, attrs: attrs}
}

// Name returns the bound cookie name.
func (c *Cookie) Name() string {
	return c.name
}

// Value returns the decoded value, or nil when unset.
func (c *Cookie) Value() any {
	return c.value
}

// String returns the value as it is written to the wire.
func (c *Cookie) String() string {
	return serialize(c.value)
}

// Attributes returns a copy of the current attributes.
func (c *Cookie) Attributes() Attributes {
	return c.attrs
}

// SetValue replaces the value. Structurally equal values are ignored.
func (c *Cookie) SetValue(v any) *Cookie {
	if equalValues(c.value, v) {
		return c
	}
	c.value = v
	c.sync()
	return c
}

// Add merges the options into the current attributes and value.
func (c *Cookie) Add(opts ...Option) *Cookie {
	return c.apply(State{Value: c.value, Attributes: c.attrs}, opts)
}

// Set replaces the attributes. Options start from empty attributes and the
// current value; the value only changes when an option sets it.
func (c *Cookie) Set(opts ...Option) *Cookie {
	return c.apply(State{Value: c.value}, opts)
}

// Remove expires the cookie on the client. It does nothing when the value
// is unset. Only Domain, Path, SameSite and Secure are taken from opts.
func (c *Cookie) Remove(opts ...Option) *Cookie {
	if c.value == nil {
		return c
	}

	var scratch State
	for _, opt := range opts {
		opt(&scratch)
	}

	return c.Set(
		WithValue(""),
		WithAttributes(Attributes{
			Domain:   scratch.Domain,
			Path:     scratch.Path,
			SameSite: scratch.SameSite,
			Secure:   scratch.Secure,
			Expires:  time.Unix(0, 0).UTC(),
			MaxAge:   -1,
		}),
	)
}

func (c *Cookie) apply(next State, opts []Option) *Cookie {
	for _, opt := range opts {
		opt(&next)
	}
	if next.Attributes.equal(c.attrs) && equalValues(next.Value, c.value) {
		return c
	}
	c.attrs = next.Attributes
	c.value = next.Value
	c.sync()
	return c
}

func (c *Cookie) sync() {
	if c.name == "" || c.setter == nil {
		return
	}
	c.setter.SetCookie(c.name, Instruction{Attributes: c.attrs, Value: serialize(c.value)})
	if c.jar != nil {
		c.jar.adopt(c)
	}
}

// Value returns the cookie value asserted to T.
func Value[T any](c *Cookie) (T, bool) {
	v, ok := c.value.(T)
	return v, ok
}

// WithValue sets the value.
func WithValue(v any) Option {
	return func(s *State) {
		s.Value = v
	}
}

// WithAttributes replaces every attribute.
func WithAttributes(a Attributes) Option {
	return func(s *State) {
		s.Attributes = a
	}
}

// WithDomain sets the Domain attribute.
func WithDomain(domain string) Option {
	return func(s *State) {
		s.Domain = domain
	}
}

// WithPath sets the Path attribute.
func WithPath(path string) Option {
	return func(s *State) {
		s.Path = path
	}
}

// WithExpires sets the Expires attribute.
func WithExpires(t time.Time) Option {
	return func(s *State) {
		s.Expires = t
	}
}

// WithMaxAge sets the Max-Age attribute in seconds.
func WithMaxAge(seconds int) Option {
	return func(s *State) {
		s.MaxAge = seconds
	}
}

// WithHTTPOnly sets the HttpOnly flag.
func WithHTTPOnly(httpOnly bool) Option {
	return func(s *State) {
		s.HTTPOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(s *State) {
		s.SameSite = ss
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(s *State) {
		s.Secure = secure
	}
}

// WithPriority sets the Priority attribute.
func WithPriority(p Priority) Option {
	return func(s *State) {
		s.Priority = p
	}
}

// Update derives the next state from the current one.
func Update(fn func(State) State) Option {
	return func(s *State) {
		*s = fn(*s)
	}
}
