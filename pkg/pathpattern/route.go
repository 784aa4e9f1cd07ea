package pathpattern

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Params holds decoded parameter values keyed by name. The wildcard value
// is stored under "*".
type Params map[string]string

// Get returns the value for name or "".
func (p Params) Get(name string) string {
	return p[name]
}

// Route is a compiled template that matches whole request paths.
type Route struct {
	re       *regexp.Regexp
	template string
	names    []string
	segments []Segment
}

// Segment is one element of a compiled template. Pattern is nil for
// literal segments.
type Segment struct {
	Pattern *Pattern
	Literal string
}

// Compile builds a Route from a template. Parameter labels are resolved
// through cache, so routes compiled against one cache share patterns.
func Compile(template string, cache *Cache) (*Route, error) {
	if cache == nil {
		cache = NewCache()
	}

	segments := SplitRoutingPath(template)
	r := &Route{template: template, segments: make([]Segment, 0, len(segments))}

	var b strings.Builder
	b.WriteString("^")
	for i, seg := range segments {
		last := i == len(segments)-1

		p, err := cache.Get(seg)
		switch {
		case errors.Is(err, ErrNotPattern):
			r.segments = append(r.segments, Segment{Literal: seg})
			b.WriteString("/")
			b.WriteString(regexp.QuoteMeta(seg))
			continue
		case err != nil:
			return nil, err
		}

		r.segments = append(r.segments, Segment{Pattern: p})
		group := "p" + strconv.Itoa(len(r.names))
		r.names = append(r.names, p.Name)

		switch {
		case p.IsWildcard() && last:
			fmt.Fprintf(&b, "(?:/(?P<%s>.*))?", group)
		case p.IsWildcard():
			fmt.Fprintf(&b, "/(?P<%s>.*)", group)
		case p.Expr == "":
			fmt.Fprintf(&b, "/(?P<%s>[^/]+)", group)
		default:
			fmt.Fprintf(&b, "/(?P<%s>%s)", group, p.Expr)
		}
	}
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRegexp, template, err)
	}
	r.re = re
	return r, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(template string, cache *Cache) *Route {
	r, err := Compile(template, cache)
	if err != nil {
		panic(err)
	}
	return r
}

// Template returns the source template.
func (r *Route) Template() string {
	return r.template
}

// Names returns the parameter names in template order.
func (r *Route) Names() []string {
	return r.names
}

// Segments returns the compiled segments in template order.
func (r *Route) Segments() []Segment {
	return r.segments
}

// Match matches a request path against the route and returns the decoded
// parameters. Values that fail percent-decoding are returned as-is.
func (r *Route) Match(path string) (Params, bool) {
	m := r.re.FindStringSubmatch(path)
	if m == nil {
		return nil, false
	}

	params := make(Params, len(r.names))
	for i, name := range r.names {
		idx := r.re.SubexpIndex("p" + strconv.Itoa(i))
		if idx < 0 {
			continue
		}
		v := m[idx]
		if dec, err := url.PathUnescape(v); err == nil {
			v = dec
		}
		params[name] = v
	}
	return params, true
}
