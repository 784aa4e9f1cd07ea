package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/weave/pkg/cookie"
	"github.com/dmitrymomot/weave/pkg/logger"
	"github.com/dmitrymomot/weave/pkg/validator"
)

// Option configures an App in New.
type Option func(*App)

// WithMiddleware appends global middleware. The first one listed is the
// outermost and sees every request, including 404 and 405 responses.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers appends route providers. Their Routes methods run once,
// in order, when New builds the router.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles serves the subDir tree of fsys under prefix. Directory
// paths return 404. It panics if subDir is not a valid fs path.
//
//	//go:embed public
//	var assets embed.FS
//
//	weave.New(weave.WithStaticFiles("/static/", assets, "public"))
func WithStaticFiles(prefix string, fsys fs.FS, subDir string) Option {
	root, err := fs.Sub(fsys, subDir)
	if err != nil {
		panic(fmt.Errorf("weave: static files %q: %w", subDir, err))
	}
	return func(a *App) {
		a.staticRoutes = append(a.staticRoutes, staticRoute{
			pattern: prefix,
			handler: staticFiles(strings.TrimSuffix(prefix, "/"), root),
		})
	}
}

func staticFiles(prefix string, root fs.FS) http.Handler {
	files := http.StripPrefix(prefix, http.FileServerFS(root))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		h := w.Header()
		h.Set("Cache-Control", "public, max-age=3600")
		h.Set("X-Content-Type-Options", "nosniff")
		files.ServeHTTP(w, r)
	})
}

// WithErrorHandler replaces DefaultErrorHandler for errors returned by
// handlers and middleware. When h fails before writing anything, its own
// error is rendered by DefaultErrorHandler.
//
//	weave.WithErrorHandler(func(c weave.Context, err error) error {
//	    return c.JSON(weave.ErrorStatus(err), map[string]string{"error": err.Error()})
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler runs h for requests no route matches.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler runs h when the path matches but the method
// does not.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithLogger builds a JSON logger tagged with component. Extractors add
// request-scoped attributes such as request_id.
//
//	weave.New(weave.WithLogger("api", middlewares.RequestIDExtractor()))
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.Config{}, extractors...).With("component", component)
	}
}

// WithCustomLogger uses l as is. A nil logger is ignored.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions configures how the request cookie header is parsed and
// how staged cookies are written: secrets, signed names and default
// attributes.
//
// Example:
//
//	weave.New(
//	    weave.WithCookieOptions(
//	        cookie.WithSecrets(os.Getenv("COOKIE_SECRET"), os.Getenv("COOKIE_SECRET_OLD")),
//	        cookie.WithSigned("sid"),
//	        cookie.WithDefaults(cookie.Attributes{Path: "/", HTTPOnly: true}),
//	    ),
//	)
func WithCookieOptions(opts ...cookie.JarOption) Option {
	return func(a *App) {
		a.cookieOptions = append(a.cookieOptions, opts...)
	}
}

// WithProduction switches validation errors to the redacted production format.
func WithProduction(production bool) Option {
	return func(a *App) {
		a.production = production
	}
}

// WithStrictPath controls trailing slash handling. When strict, "/users"
// and "/users/" are different routes. Paths are not strict by default.
func WithStrictPath(strict bool) Option {
	return func(a *App) {
		a.strictPath = strict
	}
}

// WithStore deep-merges values into the application store. Every request
// sees its own deep copy through Context.Store.
//
// Example:
//
//	weave.New(
//	    weave.WithStore(map[string]any{"version": "1.2.0"}),
//	    weave.WithStore(map[string]any{"features": map[string]any{"beta": true}}),
//	)
func WithStore(values map[string]any) Option {
	return func(a *App) {
		a.store = MergeDeep(a.store, values)
	}
}

// WithConfig applies a loaded Config: environment, address, strict paths,
// cookie settings and logger. Options listed after it override its values.
//
// Example:
//
//	cfg := config.MustLoad[weave.Config]()
//	app := weave.New(weave.WithConfig(cfg), weave.WithHandlers(h))
func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.production = validator.IsProduction(cfg.Env)
		a.strictPath = cfg.StrictPath
		a.address = cfg.Address
		a.cookieOptions = append(a.cookieOptions, cfg.Cookie.Options()...)
		a.logger = logger.New(cfg.Logger).With("env", cfg.Env)
	}
}
