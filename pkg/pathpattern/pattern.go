package pathpattern

import (
	"fmt"
	"regexp"
	"sync"

	"golang.org/x/sync/singleflight"
)

var labelRe = regexp.MustCompile(`^:([^{}]+)(?:\{(.+)\})?$`)

// Pattern is a parsed parameter label.
type Pattern struct {
	re       *regexp.Regexp
	Label    string
	Name     string
	Expr     string
	wildcard bool
}

// Wildcard is the pattern for the "*" label. It is never cached.
var Wildcard = &Pattern{Label: "*", Name: "*", wildcard: true}

// IsWildcard reports whether p is the wildcard pattern.
func (p *Pattern) IsWildcard() bool {
	return p.wildcard
}

// Match reports whether a single path segment satisfies the pattern.
// A parameter without an expression accepts any non-empty segment.
func (p *Pattern) Match(segment string) bool {
	switch {
	case p.wildcard:
		return true
	case p.re == nil:
		return segment != ""
	default:
		return p.re.MatchString(segment)
	}
}

// Cache memoizes parsed labels. The zero value is not usable; use NewCache.
type Cache struct {
	entries sync.Map
	group   singleflight.Group
}

// NewCache creates an empty pattern cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get parses label and returns its pattern. Repeated calls with the same
// label return the identical *Pattern for the lifetime of the cache.
// Labels that are not parameters yield ErrNotPattern.
func (c *Cache) Get(label string) (*Pattern, error) {
	if label == "*" {
		return Wildcard, nil
	}
	if v, ok := c.entries.Load(label); ok {
		return v.(*Pattern), nil
	}

	v, err, _ := c.group.Do(label, func() (any, error) {
		p, err := parseLabel(label)
		if err != nil {
			return nil, err
		}
		actual, _ := c.entries.LoadOrStore(label, p)
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Pattern), nil
}

// Len returns the number of cached labels.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func parseLabel(label string) (*Pattern, error) {
	m := labelRe.FindStringSubmatch(label)
	if m == nil {
		return nil, ErrNotPattern
	}

	p := &Pattern{Label: label, Name: m[1], Expr: m[2]}
	if p.Expr != "" {
		re, err := regexp.Compile("^" + p.Expr + "$")
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidRegexp, label, err)
		}
		p.re = re
	}
	return p, nil
}
