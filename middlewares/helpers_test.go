package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrymomot/weave"
)

type routes func(r weave.Router)

func (f routes) Routes(r weave.Router) { f(r) }

// serve runs h at GET / behind the given middleware.
func serve(t *testing.T, req *http.Request, h weave.HandlerFunc, opts ...weave.Option) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, weave.WithHandlers(routes(func(r weave.Router) {
		r.GET("/", h)
	})))
	w := httptest.NewRecorder()
	weave.New(opts...).ServeHTTP(w, req)
	return w
}
