package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/weave/pkg/cookie"
	"github.com/dmitrymomot/weave/pkg/pathpattern"
	"github.com/dmitrymomot/weave/pkg/validator"
)

// contextKey stores the request Context in the request's context.Context,
// so nested middleware and handlers share one jar and one Outgoing.
type contextKey struct{}

// Context is the per-request state shared by middleware and the handler.
// It is a context.Context backed by the request's context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	ResponseWriter() *ResponseWriter
	Context() context.Context

	// Path is the raw request path. Without strict paths a single trailing
	// slash is trimmed.
	Path() string

	// Param returns a route parameter, or "" if the route has none by that
	// name. The wildcard match is named "*".
	Param(name string) string
	Params() pathpattern.Params

	Query(name string) string
	QueryDefault(name, defaultValue string) string

	// QueryValues maps single values to string and repeated keys to
	// []string, ready for schema validation.
	QueryValues() map[string]any

	Form(name string) string
	FormFile(name string) (multipart.File, *multipart.FileHeader, error)

	Header(name string) string

	// Headers maps lower-cased names to a string, or []string when the
	// header repeats.
	Headers() map[string]any
	SetHeader(name, value string)

	// Cookie returns the jar entry for name. Entries for cookies absent
	// from the request are created empty. Changes are staged on Outgoing
	// and written before the response starts.
	Cookie(name string) *cookie.Cookie
	Jar() *cookie.Jar
	Outgoing() *Outgoing

	// Store is this request's copy of the app store.
	Store() map[string]any

	BindJSON(v any) error

	// Validate checks value against schema and reports failures as a
	// *validator.Error of the given kind, redacted in production.
	Validate(kind string, schema validator.Schema, value any) error

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	Redirect(code int, url string) error

	// Error builds an HTTPError for the handler to return. Nothing is written.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set derives the request context with key set to value; Get reads it.
	Set(key any, value any)
	Get(key any) any
}

// requestContext implements the Context interface.
type requestContext struct {
	request        *http.Request
	responseWriter *ResponseWriter
	app            *App
	jar            *cookie.Jar
	outgoing       *Outgoing
	params         pathpattern.Params
	store          map[string]any
	query          url.Values
	path           string
	cookieErr      error
}

// newContext builds the request state: wraps the writer, parses the cookie
// header once and registers the hook that applies Outgoing before the first
// write. A cookie signature failure is kept in cookieErr and the jar is
// left empty.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw := NewResponseWriter(w)
	out := NewOutgoing()

	c := &requestContext{
		responseWriter: rw,
		app:            app,
		outgoing:       out,
	}

	jar, err := cookie.Parse(out, strings.Join(r.Header.Values("Cookie"), "; "), app.cookieOptions...)
	if err != nil {
		c.cookieErr = err
		jar, _ = cookie.Parse(out, "", app.cookieOptions...)
	}
	c.jar = jar

	c.request = r.WithContext(context.WithValue(r.Context(), contextKey{}, c))
	c.path = requestPath(r, app.strictPath)

	rw.OnBeforeWrite(func() {
		if err := out.apply(rw.Header(), app.cookieOptions...); err != nil {
			app.logger.ErrorContext(c.request.Context(), "failed to write cookies", slog.Any("error", err))
		}
	})
	return c
}

// contextFrom returns the request state stored by an outer layer.
func contextFrom(r *http.Request) (*requestContext, bool) {
	c, ok := r.Context().Value(contextKey{}).(*requestContext)
	return c, ok
}

// requestPath rebuilds the absolute request URL and extracts its path.
func requestPath(r *http.Request, strict bool) string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	raw := scheme + "://" + host + r.URL.RequestURI()

	extract := pathpattern.Path
	if !strict {
		extract = pathpattern.PathNoStrict
	}
	p, err := extract(raw)
	if err != nil {
		return r.URL.EscapedPath()
	}
	return p
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Path() string {
	return c.path
}

func (c *requestContext) Param(name string) string {
	if v, ok := c.params[name]; ok {
		return v
	}
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Params() pathpattern.Params {
	if c.params == nil {
		return pathpattern.Params{}
	}
	return c.params
}

func (c *requestContext) queryValues() url.Values {
	if c.query == nil {
		c.query = c.request.URL.Query()
	}
	return c.query
}

func (c *requestContext) Query(name string) string {
	return c.queryValues().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	v := c.queryValues().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *requestContext) QueryValues() map[string]any {
	return flatten(c.queryValues(), false)
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) Headers() map[string]any {
	return flatten(c.request.Header, true)
}

func (c *requestContext) SetHeader(name, value string) {
	c.responseWriter.Header().Set(name, value)
}

func (c *requestContext) Cookie(name string) *cookie.Cookie {
	return c.jar.Get(name)
}

func (c *requestContext) Jar() *cookie.Jar {
	return c.jar
}

func (c *requestContext) Outgoing() *Outgoing {
	return c.outgoing
}

func (c *requestContext) Store() map[string]any {
	if c.store == nil {
		c.store = cloneMap(c.app.store)
		if c.store == nil {
			c.store = make(map[string]any)
		}
	}
	return c.store
}

func (c *requestContext) BindJSON(v any) error {
	if c.request.Body == nil {
		return ErrBadRequest("empty request body")
	}
	dec := json.NewDecoder(c.request.Body)
	if err := dec.Decode(v); err != nil {
		return ErrBadRequest("invalid JSON body", WithError(fmt.Errorf("bind json: %w", err)))
	}
	return nil
}

func (c *requestContext) Validate(kind string, schema validator.Schema, value any) error {
	return validator.Validate(kind, schema, value, validator.WithProduction(c.app.production))
}

func (c *requestContext) begin(code int, contentType string) {
	c.responseWriter.Header().Set("Content-Type", contentType)
	c.responseWriter.WriteHeader(code)
}

func (c *requestContext) JSON(code int, v any) error {
	c.begin(code, "application/json; charset=utf-8")
	return json.NewEncoder(c.responseWriter).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.begin(code, "text/plain; charset=utf-8")
	_, err := io.WriteString(c.responseWriter, s)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.responseWriter.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.responseWriter, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Logger() *slog.Logger {
	return c.app.logger
}

func (c *requestContext) log(level slog.Level, msg string, attrs []any) {
	c.app.logger.Log(c.request.Context(), level, msg, attrs...)
}

func (c *requestContext) LogDebug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }
func (c *requestContext) LogInfo(msg string, attrs ...any)  { c.log(slog.LevelInfo, msg, attrs) }
func (c *requestContext) LogWarn(msg string, attrs ...any)  { c.log(slog.LevelWarn, msg, attrs) }
func (c *requestContext) LogError(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

func (c *requestContext) Set(key, value any) {
	c.request = c.request.WithContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

// finish flushes Outgoing when the handler chain wrote nothing.
func (c *requestContext) finish() {
	if c.responseWriter.Written() {
		return
	}
	c.outgoing.flush(c.responseWriter)
}

func flatten(values map[string][]string, lower bool) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if lower {
			k = strings.ToLower(k)
		}
		switch len(v) {
		case 0:
		case 1:
			out[k] = v[0]
		default:
			out[k] = v
		}
	}
	return out
}
