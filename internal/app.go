package internal

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/weave/pkg/cookie"
	"github.com/dmitrymomot/weave/pkg/logger"
	"github.com/dmitrymomot/weave/pkg/pathpattern"
)

// App is an http.Handler built from options. It is immutable once New
// returns.
type App struct {
	router   *chi.Mux
	patterns *pathpattern.Cache
	routes   map[string]*dispatcher
	logger   *slog.Logger
	store    map[string]any
	address  string

	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc

	cookieOptions []cookie.JarOption
	middlewares   []Middleware
	handlers      []Handler
	staticRoutes  []staticRoute

	production bool
	strictPath bool
}

type staticRoute struct {
	handler http.Handler
	pattern string
}

// New applies opts and builds the router.
//
//	app := weave.New(
//	    weave.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    weave.WithHandlers(notes.New(db), pages.New()),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:   chi.NewRouter(),
		patterns: pathpattern.NewCache(),
		routes:   make(map[string]*dispatcher),
		logger:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.build()
	return a
}

// Router exposes the underlying chi router.
func (a *App) Router() chi.Router { return a.router }

// Patterns returns the cache of compiled parameter constraints.
func (a *App) Patterns() *pathpattern.Cache { return a.patterns }

// Production reports whether validation errors are redacted.
func (a *App) Production() bool { return a.production }

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Run serves the app on addr and blocks until SIGINT/SIGTERM or the
// WithContext context ends, then shuts down gracefully. An empty addr falls
// back to the configured address, then ":8080".
//
//	err := app.Run(":8080", weave.ShutdownHook(db.Close))
func (a *App) Run(addr string, opts ...RunOption) error {
	if addr == "" {
		addr = a.address
	}
	return newServer(a.logger, opts...).run(addr, a)
}

func (a *App) build() {
	a.router.NotFound(a.handlerFunc(a.notFound))
	a.router.MethodNotAllowed(a.handlerFunc(a.methodNotAllowed))

	if !a.strictPath {
		a.router.Use(middleware.StripSlashes)
	}
	for _, mw := range a.middlewares {
		a.router.Use(a.chiMiddleware(mw))
	}
	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	r := &routerAdapter{app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

func (a *App) notFound(c Context) error {
	if a.notFoundHandler != nil {
		return a.notFoundHandler(c)
	}
	return ErrNotFound(http.StatusText(http.StatusNotFound))
}

func (a *App) methodNotAllowed(c Context) error {
	if a.methodNotAllowedHandler != nil {
		return a.methodNotAllowedHandler(c)
	}
	return NewHTTPError(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}

// serve runs h with the request's Context. The outermost layer creates the
// Context, rejects requests whose signed cookies fail verification and
// flushes Outgoing afterwards; inner layers reuse it.
func (a *App) serve(w http.ResponseWriter, r *http.Request, h func(*requestContext) error) {
	if c, ok := contextFrom(r); ok {
		c.request = r
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
		return
	}

	c := newContext(w, r, a)
	if c.cookieErr != nil {
		a.handleError(c, c.cookieErr)
	} else if err := h(c); err != nil {
		a.handleError(c, err)
	}
	c.finish()
}

func (a *App) handlerFunc(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.serve(w, r, func(c *requestContext) error { return h(c) })
	}
}

// chiMiddleware runs mw with the shared Context. Its next calls back into
// the chi chain with the Context's current writer and request.
func (a *App) chiMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := mw(func(c Context) error {
			next.ServeHTTP(c.Response(), c.Request())
			return nil
		})
		return a.handlerFunc(h)
	}
}

// handleError logs err and renders it with the configured error handler.
func (a *App) handleError(c Context, err error) {
	code := ErrorStatus(err)

	var sigErr *cookie.InvalidSignatureError
	switch {
	case errors.As(err, &sigErr):
		c.LogWarn("invalid cookie signature", slog.String("cookie", sigErr.Name))
	case code >= http.StatusInternalServerError:
		c.LogError("handler error", slog.Any("error", err), slog.String("path", c.Path()))
	}

	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil && !c.Written() {
			_ = DefaultErrorHandler(c, herr)
		}
		return
	}
	_ = DefaultErrorHandler(c, err)
}

// DefaultErrorHandler writes err with its status code. JSON messages, such
// as validation errors, are sent as application/json. Messages of server
// errors that are not HTTPErrors are replaced with the status text.
func DefaultErrorHandler(c Context, err error) error {
	code, msg := errorResponse(err)
	if strings.HasPrefix(msg, "{") && json.Valid([]byte(msg)) {
		w := c.Response()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		_, werr := io.WriteString(w, msg)
		return werr
	}
	return c.String(code, msg)
}

func errorResponse(err error) (int, string) {
	if httpErr := AsHTTPError(err); httpErr != nil {
		return ErrorStatus(httpErr), httpErr.Message
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		code := ErrorStatus(err)
		if code < http.StatusInternalServerError {
			if e, ok := sc.(error); ok {
				return code, e.Error()
			}
		}
		return code, http.StatusText(code)
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}
