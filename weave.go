package weave

import (
	"context"
	"io/fs"
	"log/slog"
	"net"
	"time"

	"github.com/dmitrymomot/weave/internal"
	"github.com/dmitrymomot/weave/pkg/cookie"
	"github.com/dmitrymomot/weave/pkg/logger"
	"github.com/dmitrymomot/weave/pkg/pathpattern"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Config is the application configuration, loadable with pkg/config.
	Config = internal.Config

	// Outgoing is the response state a handler sets without writing.
	Outgoing = internal.Outgoing

	// Params holds the decoded route parameters.
	Params = pathpattern.Params

	// ResponseWriter wraps http.ResponseWriter with before-write hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError is an error with an HTTP status code.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Extractor tries several sources in order and returns the first value.
	Extractor = internal.Extractor

	// ExtractorSource reads a single value from the request.
	ExtractorSource = internal.ExtractorSource

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures cookie parsing and signing.
	CookieOption = cookie.JarOption

	// Scalar lists the types the typed accessors convert to.
	Scalar = internal.Scalar
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := weave.New(
//	    weave.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    weave.WithHandlers(
//	        handlers.NewUsers(store),
//	        handlers.NewPages(),
//	    ),
//	)
//
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	weave.New(
//	    weave.WithLogger("api", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures cookie secrets, signed names and default
// attributes.
//
// Example:
//
//	weave.New(
//	    weave.WithCookieOptions(
//	        cookie.WithSecrets(current, previous),
//	        cookie.WithSigned("sid"),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithProduction switches validation errors to the redacted production format.
func WithProduction(production bool) Option {
	return internal.WithProduction(production)
}

// WithStrictPath makes "/users" and "/users/" different routes.
func WithStrictPath(strict bool) Option {
	return internal.WithStrictPath(strict)
}

// WithStore deep-merges values into the application store.
// Every request sees its own deep copy through Context.Store.
func WithStore(values map[string]any) Option {
	return internal.WithStore(values)
}

// WithConfig applies a loaded Config.
//
// Example:
//
//	cfg := config.MustLoad[weave.Config]()
//	app := weave.New(weave.WithConfig(cfg))
func WithConfig(cfg Config) Option {
	return internal.WithConfig(cfg)
}

// Run options

// Logger sets the server logger. Defaults to the app logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
//
// Example:
//
//	app.Run(":8080", weave.ShutdownHook(func(ctx context.Context) error {
//	    return hub.Close()
//	}))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// OnListen registers a callback that receives the bound address.
func OnListen(fn func(net.Addr)) RunOption {
	return internal.OnListen(fn)
}

// WithContext sets a custom base context for signal handling.
// Useful for testing or when integrating with existing context hierarchies.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
//
// Example:
//
//	user := weave.ContextValue[*User](c, userKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns the route parameter converted to T, or the zero value.
func Param[T Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns the query parameter converted to T, or the zero value.
func Query[T Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns the query parameter converted to T, or defaultValue
// when it is missing or invalid.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}

// StoreValue returns the request store entry under key, or the zero value.
func StoreValue[T any](c Context, key string) T {
	return internal.StoreValue[T](c, key)
}

// CookieValue returns the decoded cookie value converted to T.
//
// Example:
//
//	visits, _ := weave.CookieValue[int](c, "visits")
func CookieValue[T Scalar](c Context, name string) (T, bool) {
	return internal.CookieValue[T](c, name)
}

// Extractors

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a request header.
func FromHeader(name string) ExtractorSource { return internal.FromHeader(name) }

// FromQuery reads a query parameter.
func FromQuery(name string) ExtractorSource { return internal.FromQuery(name) }

// FromCookie reads a cookie from the request jar.
func FromCookie(name string) ExtractorSource { return internal.FromCookie(name) }

// FromParam reads a route parameter.
func FromParam(name string) ExtractorSource { return internal.FromParam(name) }

// FromForm reads a form value.
func FromForm(name string) ExtractorSource { return internal.FromForm(name) }

// FromStore reads a value from the request store.
func FromStore(key string) ExtractorSource { return internal.FromStore(key) }

// FromBearerToken reads a Bearer token from the Authorization header.
func FromBearerToken() ExtractorSource { return internal.FromBearerToken() }

// Errors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// HTTP error constructors.
var (
	ErrBadRequest         = internal.ErrBadRequest
	ErrUnauthorized       = internal.ErrUnauthorized
	ErrForbidden          = internal.ErrForbidden
	ErrNotFound           = internal.ErrNotFound
	ErrConflict           = internal.ErrConflict
	ErrUnprocessable      = internal.ErrUnprocessable
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable
)

// HTTPError options.
var (
	WithErrorCode = internal.WithErrorCode
	WithError     = internal.WithError
)

// Sentinel errors for checking return values.
var (
	ErrUnknownStatus          = internal.ErrUnknownStatus
	ErrCookieNoSecret         = cookie.ErrNoSecret
	ErrCookieInvalidSignature = cookie.ErrInvalidSignature
)

// IsHTTPError reports whether err wraps an HTTPError.
func IsHTTPError(err error) bool { return internal.IsHTTPError(err) }

// AsHTTPError returns the HTTPError wrapped by err, or nil.
func AsHTTPError(err error) *HTTPError { return internal.AsHTTPError(err) }

// ErrorStatus returns the HTTP status carried by err, or 500.
func ErrorStatus(err error) int { return internal.ErrorStatus(err) }

// DefaultErrorHandler renders err with its status code.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// Utilities

// StatusCode returns the status code for a reason phrase such as "Not Found".
func StatusCode(name string) (int, bool) { return internal.StatusCode(name) }

// NewOutgoing returns empty outbound response state.
func NewOutgoing() *Outgoing { return internal.NewOutgoing() }

// MergeDeep merges source into target recursively and returns target.
func MergeDeep(target, source map[string]any, skipKeys ...string) map[string]any {
	return internal.MergeDeep(target, source, skipKeys...)
}
