// Package weave provides a small, explicit framework for building HTTP
// services and realtime backends in Go.
//
// Weave is a thin orchestration layer over chi: handlers declare routes,
// middleware wraps them, and one request Context carries the parsed cookie
// jar, route parameters and the outgoing response state.
//
// # Quick Start
//
//	cfg := config.MustLoad[weave.Config]()
//
//	app := weave.New(
//	    weave.WithConfig(cfg),
//	    weave.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    weave.WithHandlers(handlers.NewUsers(store)),
//	)
//
//	if err := app.Run(""); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes. Templates
// support named parameters, regular expression constraints, a trailing
// optional parameter and a wildcard:
//
//	func (h *UserHandler) Routes(r weave.Router) {
//	    r.Route("/users", func(r weave.Router) {
//	        r.GET("/", h.list)
//	        r.GET("/:id{[0-9]+}", h.show)
//	        r.POST("/", h.create)
//	    })
//	    r.GET("/files/*", h.download)
//	}
//
//	func (h *UserHandler) show(c weave.Context) error {
//	    user, err := h.store.Get(c, weave.Param[int64](c, "id"))
//	    if err != nil {
//	        return weave.ErrNotFound("user not found", weave.WithError(err))
//	    }
//	    return c.JSON(http.StatusOK, user)
//	}
//
// # Cookies
//
// The Cookie header is parsed once per request. Values are decoded as JSON
// objects, numbers or booleans when they look like one. Changes are staged
// and sent as Set-Cookie headers with the response:
//
//	c.Cookie("theme").SetValue("dark").Add(cookie.WithMaxAge(3600))
//	c.Cookie("sid").Remove()
//
// Cookies named with cookie.WithSigned are verified with HMAC-SHA256 against
// every secret passed to cookie.WithSecrets; a forged value ends the request
// with 400.
//
// # Validation
//
// Context.Validate checks values against a compiled JSON Schema and returns
// an error that renders as JSON. Production mode hides submitted values:
//
//	var userSchema = validator.MustCompileJSONSchema("user", schemaJSON)
//
//	func (h *UserHandler) create(c weave.Context) error {
//	    var body map[string]any
//	    if err := c.BindJSON(&body); err != nil {
//	        return err
//	    }
//	    if err := c.Validate("body", userSchema, body); err != nil {
//	        return err
//	    }
//	    ...
//	}
//
// # Shutdown
//
// Run handles SIGINT/SIGTERM for graceful shutdown. Register cleanup
// functions with ShutdownHook:
//
//	app.Run(":8080", weave.ShutdownHook(hub.Close))
//
// # Escape Hatch
//
// For advanced use cases requiring raw chi router access, use
// [App.Router] or mount an http.Handler with Router.Mount.
package weave
