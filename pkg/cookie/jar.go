package cookie

import (
	"net/url"
	"slices"
	"strings"
)

// Jar holds the cookies of one request. It is not safe for concurrent use.
type Jar struct {
	entries  map[string]*Cookie
	setter   Setter
	defaults Attributes
}

// NewJar creates an empty jar. Cookies created through it inherit defaults
// and stage their writes into setter.
func NewJar(setter Setter, defaults Attributes) *Jar {
	return &Jar{
		entries:  make(map[string]*Cookie),
		setter:   setter,
		defaults: defaults,
	}
}

// Get returns the cookie stored under name. For an absent name it returns
// a fresh handle with no value and the jar defaults; the handle joins the
// jar the first time it writes.
func (j *Jar) Get(name string) *Cookie {
	if c, ok := j.entries[name]; ok {
		return c
	}
	return &Cookie{name: name, attrs: j.defaults, setter: j.setter, jar: j}
}

// Lookup returns the stored cookie and whether it exists.
func (j *Jar) Lookup(name string) (*Cookie, bool) {
	c, ok := j.entries[name]
	return c, ok
}

// Has reports whether name is stored in the jar.
func (j *Jar) Has(name string) bool {
	_, ok := j.entries[name]
	return ok
}

// Put stores c under name, binds it to the jar's setter and stages its
// current state immediately.
func (j *Jar) Put(name string, c *Cookie) {
	c.name = name
	c.setter = j.setter
	c.jar = j
	j.entries[name] = c
	c.sync()
}

// Names returns the stored cookie names in sorted order.
func (j *Jar) Names() []string {
	names := make([]string, 0, len(j.entries))
	for name := range j.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of stored cookies.
func (j *Jar) Len() int {
	return len(j.entries)
}

// Defaults returns the attributes new handles start with.
func (j *Jar) Defaults() Attributes {
	return j.defaults
}

func (j *Jar) adopt(c *Cookie) {
	j.entries[c.name] = c
}

// JarOption configures parsing and signing.
type JarOption func(*jarConfig)

type jarConfig struct {
	signed   map[string]struct{}
	secrets  []string
	defaults Attributes
	signAll  bool
}

func newJarConfig(opts []JarOption) *jarConfig {
	cfg := &jarConfig{signed: make(map[string]struct{})}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *jarConfig) isSigned(name string) bool {
	if c.signAll {
		return true
	}
	_, ok := c.signed[name]
	return ok
}

// WithSecrets sets the signing secrets, newest first. Verification tries
// them in order; signing uses the first one. Empty secrets are ignored.
func WithSecrets(secrets ...string) JarOption {
	return func(c *jarConfig) {
		for _, s := range secrets {
			if s != "" {
				c.secrets = append(c.secrets, s)
			}
		}
	}
}

// WithSigned marks cookie names that must carry a valid signature.
func WithSigned(names ...string) JarOption {
	return func(c *jarConfig) {
		for _, n := range names {
			c.signed[n] = struct{}{}
		}
	}
}

// WithSignAll requires a signature on every cookie.
func WithSignAll() JarOption {
	return func(c *jarConfig) {
		c.signAll = true
	}
}

// WithDefaults sets the attributes every jar entry starts with.
func WithDefaults(a Attributes) JarOption {
	return func(c *jarConfig) {
		c.defaults = a
	}
}

// Parse builds a jar from a Cookie request header. Signed cookies are
// verified and stripped of their signature; values are then decoded as
// JSON objects or arrays, numbers, booleans, or kept as strings.
//
// A signed cookie that fails verification yields *InvalidSignatureError.
// A signed cookie without configured secrets yields ErrNoSecret.
func Parse(setter Setter, header string, opts ...JarOption) (*Jar, error) {
	cfg := newJarConfig(opts)
	jar := NewJar(setter, cfg.defaults)

	for _, p := range parseHeader(header) {
		raw := p.value
		if cfg.isSigned(p.name) {
			if len(cfg.secrets) == 0 {
				return nil, ErrNoSecret
			}
			v, err := unsignAny(raw, cfg.secrets)
			if err != nil {
				return nil, &InvalidSignatureError{Name: p.name}
			}
			raw = v
		}

		jar.entries[p.name] = &Cookie{
			name:   p.name,
			value:  coerce(raw),
			attrs:  cfg.defaults,
			setter: setter,
			jar:    jar,
		}
	}

	return jar, nil
}

type pair struct {
	name  string
	value string
}

// parseHeader splits a Cookie header into name/value pairs. The first
// occurrence of a name wins, pairs without "=" are skipped, surrounding
// double quotes are removed and values are percent-decoded when valid.
func parseHeader(header string) []pair {
	var (
		out  []pair
		seen = make(map[string]struct{})
	)
	for part := range strings.SplitSeq(header, ";") {
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		value = strings.TrimSpace(value)
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		if strings.Contains(value, "%") {
			if dec, err := url.PathUnescape(value); err == nil {
				value = dec
			}
		}
		out = append(out, pair{name: name, value: value})
	}
	return out
}
