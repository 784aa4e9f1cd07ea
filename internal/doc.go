// Package internal provides the core types and implementation for the weave framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/weave"
// instead, which re-exports the public API.
//
// # Core Types
//
// The package defines the fundamental types that users interact with:
//
//   - App: Orchestrates the application lifecycle, HTTP routing, and graceful shutdown
//   - Context: Provides request/response access, cookies, outgoing state and helper methods
//   - Router: Interface handlers use to declare routes with HTTP methods and grouping
//   - Handler: Interface implemented by types that declare routes on a router
//   - HandlerFunc: Signature for individual route handlers that return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns like auth or logging
//   - ErrorHandler: Custom error handling function for handler errors
//   - Outgoing: Response state collected before the first write
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context:
//
//	func (h *Handler) getUser(c weave.Context) error {
//	    user, err := h.repo.GetUser(c, c.Param("id"))
//	    if err != nil {
//	        return err
//	    }
//	    return c.JSON(200, user)
//	}
//
// # Routing
//
// Route templates are compiled by package pathpattern and served through chi.
// ":name" matches one segment, ":name{regexp}" constrains it, a trailing
// ":name?" is optional and "*" matches the rest of the path:
//
//	func (h *FileHandler) Routes(r internal.Router) {
//	    r.GET("/files/*", h.download)
//	    r.GET("/orders/:id{[0-9]+}", h.order)
//	    r.Route("/animals", func(r internal.Router) {
//	        r.Use(h.audit)
//	        r.GET("/:kind?", h.list)
//	    })
//	}
//
// Without strict paths a single trailing slash is ignored, both when routes
// are registered and when requests are matched.
//
// # Request State
//
// One Context is created per request by the outermost layer and shared by
// global middleware, route middleware and the handler. It parses the Cookie
// header into a cookie.Jar once; a signed cookie that fails verification
// ends the request with 400 before any handler runs. Cookie mutations are
// staged on Outgoing and written as Set-Cookie headers right before the
// response starts. A handler that writes nothing gets Outgoing's status or
// redirect flushed after it returns.
//
// # Error Handling
//
// Errors returned from handlers are passed to the ErrorHandler, falling back
// to DefaultErrorHandler. Any error with a StatusCode method selects the
// response status; messages of 5xx errors are only shown for HTTPError.
// Validation errors render as JSON.
//
// # Server Runtime
//
//	err := app.Run(":8080",
//	    internal.ShutdownTimeout(10*time.Second),
//	    internal.ShutdownHook(db.Close),
//	)
//
// Run blocks until SIGINT/SIGTERM or the context passed with WithContext is
// cancelled, then shuts the server down gracefully.
package internal
