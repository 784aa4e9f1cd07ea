package internal

// Handler groups related routes. Routes is called once by New.
//
//	type Notes struct{ db *sql.DB }
//
//	func (h *Notes) Routes(r weave.Router) {
//	    r.GET("/notes/:id{[0-9]+}", h.show)
//	    r.POST("/notes", h.create, requireUser)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc serves a request. A returned error is rendered by the app's
// ErrorHandler unless a response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc. It may stop the chain by returning
// without calling next.
//
//	func requireUser(next weave.HandlerFunc) weave.HandlerFunc {
//	    return func(c weave.Context) error {
//	        if _, ok := weave.CookieValue[string](c, "user"); !ok {
//	            return c.Redirect(http.StatusFound, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders an error returned by a handler or middleware.
type ErrorHandler func(c Context, err error) error
