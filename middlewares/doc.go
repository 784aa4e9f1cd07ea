// Package middlewares provides HTTP middleware for weave applications.
//
// # Request ID
//
// RequestID assigns an ID to each request for tracing. It reuses an ID from
// X-Request-ID or X-Correlation-ID when one is present and well formed, and
// generates a UUID otherwise. The ID is echoed in the X-Request-ID response
// header.
//
// Use RequestIDExtractor with WithLogger to add request_id to every log entry:
//
//	app := weave.New(
//	    weave.WithLogger("api", middlewares.RequestIDExtractor()),
//	    weave.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// # Recover
//
// Recover turns panics into a *PanicError. The default error handler answers
// 500 without exposing the panic value; a custom handler can inspect it:
//
//	weave.WithErrorHandler(func(c weave.Context, err error) error {
//	    if pe, ok := middlewares.AsPanicError(err); ok {
//	        c.LogError("panic", "value", pe.Value)
//	    }
//	    return weave.DefaultErrorHandler(c, err)
//	})
//
// # Recommended Middleware Order
//
//	weave.WithMiddleware(
//	    middlewares.RequestID(), // assign ID for all subsequent logging
//	    middlewares.Recover(),   // catch panics from handlers
//	)
package middlewares
