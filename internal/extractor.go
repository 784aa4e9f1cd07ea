package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource reads one value from the request.
// It reports false when the value is absent or empty.
type ExtractorSource = func(Context) (string, bool)

// Extractor tries sources in order and returns the first non-empty value.
//
// Example:
//
//	token := weave.NewExtractor(
//	    weave.FromBearerToken(),
//	    weave.FromCookie("token"),
//	    weave.FromQuery("token"),
//	)
//	if v, ok := token.Extract(c); ok { ... }
type Extractor struct {
	sources []ExtractorSource
}

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract returns ("", false) when every source misses.
func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// lookup adapts a string accessor into a source that treats "" as absent.
func lookup(get func(c Context) string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := get(c)
		return v, v != ""
	}
}

func FromHeader(name string) ExtractorSource {
	return lookup(func(c Context) string { return c.Header(name) })
}

func FromQuery(name string) ExtractorSource {
	return lookup(func(c Context) string { return c.Query(name) })
}

func FromParam(name string) ExtractorSource {
	return lookup(func(c Context) string { return c.Param(name) })
}

func FromForm(name string) ExtractorSource {
	return lookup(func(c Context) string { return c.Form(name) })
}

// FromCookie reads a jar entry in its wire form. Signed cookies are
// verified when the jar is built; values staged earlier in the request
// are visible.
func FromCookie(name string) ExtractorSource {
	return lookup(func(c Context) string {
		if entry, ok := c.Jar().Lookup(name); ok {
			return entry.String()
		}
		return ""
	})
}

// FromStore reads a request store entry. Non-string values are formatted
// with fmt.Sprint.
func FromStore(key string) ExtractorSource {
	return lookup(func(c Context) string {
		switch v := c.Store()[key].(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	})
}

// FromBearerToken reads the token of an "Authorization: Bearer" header.
// The scheme is matched case-insensitively.
func FromBearerToken() ExtractorSource {
	return lookup(func(c Context) string {
		scheme, token, ok := strings.Cut(c.Header("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	})
}
