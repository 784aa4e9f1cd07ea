package weave_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weave"
	"github.com/dmitrymomot/weave/pkg/cookie"
	"github.com/dmitrymomot/weave/pkg/logger"
	"github.com/dmitrymomot/weave/pkg/validator"
)

var noteSchema = validator.MustCompileJSONSchema("note", []byte(`{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "minLength": 3}
	}
}`))

type note struct {
	Title string `json:"title"`
}

// notesHandler keeps notes in memory and remembers the last visitor.
type notesHandler struct {
	notes []note
}

func (h *notesHandler) Routes(r weave.Router) {
	r.Route("/notes", func(r weave.Router) {
		r.GET("/", h.list)
		r.POST("/", h.create)
		r.GET("/:id{[0-9]+}", h.show)
	})
	r.GET("/whoami", h.whoami)
	r.GET("/boom", func(c weave.Context) error {
		return errors.New("database exploded")
	})
}

func (h *notesHandler) list(c weave.Context) error {
	return c.JSON(http.StatusOK, h.notes)
}

func (h *notesHandler) create(c weave.Context) error {
	var in map[string]any
	if err := c.BindJSON(&in); err != nil {
		return err
	}
	if err := c.Validate("body", noteSchema, in); err != nil {
		return err
	}
	h.notes = append(h.notes, note{Title: in["title"].(string)})
	c.Cookie("author").SetValue(c.Header("X-User"))
	return c.JSON(http.StatusCreated, h.notes[len(h.notes)-1])
}

func (h *notesHandler) show(c weave.Context) error {
	id := weave.Param[int](c, "id")
	if id < 1 || id > len(h.notes) {
		return weave.ErrNotFound("note not found")
	}
	return c.JSON(http.StatusOK, h.notes[id-1])
}

func (h *notesHandler) whoami(c weave.Context) error {
	author, _ := cookie.Value[string](c.Cookie("author"))
	return c.String(http.StatusOK, author)
}

func poweredBy(c weave.Context) error {
	c.Outgoing().Headers.Set("X-Powered-By", "weave")
	return nil
}

func middleware(fn func(c weave.Context) error) weave.Middleware {
	return func(next weave.HandlerFunc) weave.HandlerFunc {
		return func(c weave.Context) error {
			if err := fn(c); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func send(t *testing.T, app *weave.App, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestApp(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	app := weave.New(
		weave.WithConfig(weave.Config{
			Env:    "production",
			Cookie: cookie.Config{Path: "/", Secrets: []string{"s3cret"}, Signed: []string{"author"}, HTTPOnly: true},
			Logger: logger.Config{Output: &logs},
		}),
		weave.WithMiddleware(middleware(poweredBy)),
		weave.WithHandlers(&notesHandler{}),
	)

	w := send(t, app, http.MethodPost, "/notes", `{"title":"Buy milk"}`, http.Header{"X-User": {"ada"}})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"title":"Buy milk"}`, w.Body.String())
	assert.Equal(t, "weave", w.Header().Get("X-Powered-By"))

	setCookie := w.Header().Get("Set-Cookie")
	require.True(t, strings.HasPrefix(setCookie, "author=ada."), setCookie)
	signed := strings.TrimPrefix(strings.SplitN(setCookie, ";", 2)[0], "author=")

	t.Run("signed cookie is read back", func(t *testing.T) {
		w := send(t, app, http.MethodGet, "/whoami", "", http.Header{"Cookie": {"author=" + signed}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ada", w.Body.String())
	})

	t.Run("tampered cookie is rejected", func(t *testing.T) {
		w := send(t, app, http.MethodGet, "/whoami", "", http.Header{"Cookie": {"author=eve.AAAA"}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("trailing slash and params", func(t *testing.T) {
		w := send(t, app, http.MethodGet, "/notes/", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"title":"Buy milk"}]`, w.Body.String())

		w = send(t, app, http.MethodGet, "/notes/1", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = send(t, app, http.MethodGet, "/notes/9", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "note not found", w.Body.String())

		w = send(t, app, http.MethodGet, "/notes/abc", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("validation is redacted in production", func(t *testing.T) {
		w := send(t, app, http.MethodPost, "/notes", `{"title":"no"}`, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "body", body["type"])
		assert.NotContains(t, w.Body.String(), `"no"`)
	})

	t.Run("server errors are hidden and logged", func(t *testing.T) {
		w := send(t, app, http.MethodGet, "/boom", "", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), w.Body.String())
		assert.Contains(t, logs.String(), "database exploded")
	})
}

func TestHTTPErrors(t *testing.T) {
	t.Parallel()

	err := weave.ErrConflict("already exists", weave.WithErrorCode("duplicate"))
	assert.True(t, weave.IsHTTPError(err))
	assert.Equal(t, http.StatusConflict, weave.ErrorStatus(err))
	assert.Equal(t, "duplicate", weave.AsHTTPError(err).ErrorCode)

	wrapped := errors.Join(errors.New("context"), err)
	assert.Equal(t, http.StatusConflict, weave.ErrorStatus(wrapped))
	assert.Equal(t, http.StatusInternalServerError, weave.ErrorStatus(errors.New("plain")))
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	code, ok := weave.StatusCode("I'm a teapot")
	require.True(t, ok)
	assert.Equal(t, http.StatusTeapot, code)

	out := weave.NewOutgoing()
	require.ErrorIs(t, out.SetStatusName("Not A Status"), weave.ErrUnknownStatus)
}
