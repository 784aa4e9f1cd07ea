package cookie

import (
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

// Priority is the non-standard Priority cookie attribute.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Attributes are the Set-Cookie attributes of an outbound cookie.
// MaxAge follows net/http: zero omits the attribute and a negative value
// is sent as Max-Age=0.
type Attributes struct {
	Expires  time.Time
	Domain   string
	Path     string
	Priority Priority
	MaxAge   int
	SameSite http.SameSite
	HTTPOnly bool
	Secure   bool
}

func (a Attributes) equal(b Attributes) bool {
	return a.Domain == b.Domain &&
		a.Path == b.Path &&
		a.Priority == b.Priority &&
		a.MaxAge == b.MaxAge &&
		a.SameSite == b.SameSite &&
		a.HTTPOnly == b.HTTPOnly &&
		a.Secure == b.Secure &&
		a.Expires.Equal(b.Expires)
}

// Instruction is one staged outbound cookie write.
type Instruction struct {
	Attributes
	Value string
}

// HTTPCookie converts the instruction to an *http.Cookie. The value is
// percent-encoded so JSON payloads survive the cookie value grammar; Parse
// decodes it again.
func (in Instruction) HTTPCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    escape(in.Value),
		Path:     in.Path,
		Domain:   in.Domain,
		Expires:  in.Expires,
		MaxAge:   in.MaxAge,
		Secure:   in.Secure,
		HttpOnly: in.HTTPOnly,
		SameSite: in.SameSite,
	}
}

// Header renders the instruction as a Set-Cookie header value.
func (in Instruction) Header(name string) string {
	s := in.HTTPCookie(name).String()
	if in.Priority != "" {
		s += "; Priority=" + string(in.Priority)
	}
	return s
}

// Setter receives staged cookie writes. Each cookie pushes its full state
// to the setter after every effective change.
type Setter interface {
	SetCookie(name string, in Instruction)
}

// Instructions is a map-backed Setter. It must be non-nil.
type Instructions map[string]Instruction

func (m Instructions) SetCookie(name string, in Instruction) {
	m[name] = in
}

// Names returns the staged cookie names in sorted order.
func (m Instructions) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Write adds one Set-Cookie header per staged cookie, in name order.
// Cookies covered by the signing options are signed with the first secret.
func (m Instructions) Write(h http.Header, opts ...JarOption) error {
	cfg := newJarConfig(opts)
	for _, name := range m.Names() {
		in := m[name]
		if cfg.isSigned(name) {
			if len(cfg.secrets) == 0 {
				return ErrNoSecret
			}
			signed, err := Sign(in.Value, cfg.secrets[0])
			if err != nil {
				return err
			}
			in.Value = signed
		}
		h.Add("Set-Cookie", in.Header(name))
	}
	return nil
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
