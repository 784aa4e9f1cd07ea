package internal

import (
	"fmt"
	"log/slog"
	"net/http"
	"regexp/syntax"
	"slices"
	"strings"

	"github.com/dmitrymomot/weave/pkg/pathpattern"
)

// Router declares routes. Templates use package pathpattern syntax:
// ":name", ":name{regexp}", a trailing optional ":name?" and the "*"
// wildcard. Route middleware passed to a method runs after group
// middleware.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)
	PUT(path string, h HandlerFunc, mw ...Middleware)
	PATCH(path string, h HandlerFunc, mw ...Middleware)
	DELETE(path string, h HandlerFunc, mw ...Middleware)
	HEAD(path string, h HandlerFunc, mw ...Middleware)
	OPTIONS(path string, h HandlerFunc, mw ...Middleware)

	// Group scopes Use calls made inside fn to fn.
	Group(fn func(r Router))

	// Route is Group with a path prefix.
	Route(prefix string, fn func(r Router))

	// Use adds middleware for routes registered after the call.
	Use(mw ...Middleware)

	// Mount serves h under pattern, wrapped in the group's middleware.
	Mount(pattern string, h http.Handler)
}

// routerAdapter registers routes on the app's chi mux. Prefix and middleware
// are tracked here rather than in chi sub-routers, so every route is
// compiled from its full template.
type routerAdapter struct {
	app    *App
	prefix string
	mws    []Middleware
}

func (r *routerAdapter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodGet, path, h, mw)
}

func (r *routerAdapter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodPost, path, h, mw)
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodPut, path, h, mw)
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodPatch, path, h, mw)
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodDelete, path, h, mw)
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodHead, path, h, mw)
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc, mw ...Middleware) {
	r.handle(http.MethodOptions, path, h, mw)
}

func (r *routerAdapter) Group(fn func(Router)) {
	fn(&routerAdapter{app: r.app, prefix: r.prefix, mws: slices.Clone(r.mws)})
}

func (r *routerAdapter) Route(prefix string, fn func(Router)) {
	fn(&routerAdapter{
		app:    r.app,
		prefix: pathpattern.MergePath(r.prefix, prefix),
		mws:    slices.Clone(r.mws),
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	r.mws = append(r.mws, mw...)
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	for i := len(r.mws) - 1; i >= 0; i-- {
		h = r.app.chiMiddleware(r.mws[i])(h)
	}
	r.app.router.Mount(pathpattern.MergePath(r.prefix, pattern), h)
}

// handle prefixes path with the group prefix, expands a trailing optional
// parameter and registers every resulting template.
func (r *routerAdapter) handle(method, path string, h HandlerFunc, mw []Middleware) {
	h = chain(h, append(slices.Clone(r.mws), mw...))

	if r.prefix != "" {
		path = pathpattern.MergePath(r.prefix, path)
	}
	templates := pathpattern.CheckOptionalParameter(path)
	if templates == nil {
		templates = []string{path}
	}
	for _, t := range templates {
		r.app.register(method, t, h)
	}
}

// chain applies middleware so the first one listed runs first.
func chain(h HandlerFunc, mw []Middleware) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// routeEntry is a compiled template and its handler.
type routeEntry struct {
	route   *pathpattern.Route
	handler HandlerFunc
}

// dispatcher serves one chi pattern. Several templates can translate to the
// same chi pattern; the first whose compiled route matches the path wins.
type dispatcher struct {
	app     *App
	entries []routeEntry
}

func (d *dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.app.serve(w, r, func(c *requestContext) error {
		for _, e := range d.entries {
			if params, ok := e.route.Match(c.path); ok {
				c.params = params
				return e.handler(c)
			}
		}
		return d.app.notFound(c)
	})
}

// register compiles template with the app's pattern cache and routes the
// translated chi patterns to a dispatcher. Without strict paths a trailing
// slash is dropped from the template, matching the trimmed request path.
func (a *App) register(method, template string, h HandlerFunc) {
	if !a.strictPath && len(template) > 1 {
		template = strings.TrimSuffix(template, "/")
	}

	route, err := pathpattern.Compile(template, a.patterns)
	if err != nil {
		panic(fmt.Sprintf("weave: route %s %s: %v", method, template, err))
	}

	for _, pattern := range chiPatterns(route) {
		key := method + " " + pattern
		d, ok := a.routes[key]
		if !ok {
			d = &dispatcher{app: a}
			a.routes[key] = d
			a.router.Method(method, pattern, d)
		}
		d.entries = append(d.entries, routeEntry{route: route, handler: h})
	}

	a.logger.Debug("route registered",
		slog.String("method", method),
		slog.String("path", template),
	)
}

// chiPatterns translates a compiled route into chi patterns: ":id" becomes
// "{id}", ":id{re}" becomes "{id:re}", and a wildcard or an expression that
// can match "/" ends the pattern with "*". A trailing wildcard also
// matches the bare prefix, so the prefix is registered as well.
func chiPatterns(route *pathpattern.Route) []string {
	var b strings.Builder
	for _, seg := range route.Segments() {
		p := seg.Pattern
		switch {
		case p == nil:
			b.WriteString("/" + seg.Literal)
		case p.IsWildcard() || matchesSlash(p.Expr):
			base := b.String()
			if base == "" {
				return []string{"/", "/*"}
			}
			return []string{base, base + "/*"}
		case p.Expr == "":
			fmt.Fprintf(&b, "/{%s}", p.Name)
		default:
			fmt.Fprintf(&b, "/{%s:%s}", p.Name, p.Expr)
		}
	}
	if b.Len() == 0 {
		return []string{"/"}
	}
	return []string{b.String()}
}

// matchesSlash reports whether expr can consume a "/", so its match may span
// several path segments. Unparsable expressions are treated as spanning.
func matchesSlash(expr string) bool {
	if expr == "" {
		return false
	}
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil {
		return true
	}
	return slashIn(re)
}

func slashIn(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpAnyChar, syntax.OpAnyCharNotNL:
		return true
	case syntax.OpLiteral:
		if slices.Contains(re.Rune, '/') {
			return true
		}
	case syntax.OpCharClass:
		for i := 0; i+1 < len(re.Rune); i += 2 {
			if re.Rune[i] <= '/' && '/' <= re.Rune[i+1] {
				return true
			}
		}
	}
	return slices.ContainsFunc(re.Sub, slashIn)
}
