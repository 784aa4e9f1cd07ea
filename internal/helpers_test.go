package internal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weave/internal"
	"github.com/dmitrymomot/weave/pkg/cookie"
)

// stubContext names the embedded interface so its field does not shadow
// the Context method.
type stubContext = internal.Context

// paramContext stubs the Context methods the generic helpers read.
// Calling any other method panics.
type paramContext struct {
	stubContext
	params  map[string]string
	request *http.Request
	values  map[any]any
	store   map[string]any
	jar     *cookie.Jar
}

func newParamContext(params map[string]string, queryString string) *paramContext {
	url := "/"
	if queryString != "" {
		url = "/?" + queryString
	}
	jar, _ := cookie.Parse(cookie.Instructions{}, "")
	return &paramContext{
		params:  params,
		request: httptest.NewRequest(http.MethodGet, url, nil),
		values:  make(map[any]any),
		store:   make(map[string]any),
		jar:     jar,
	}
}

func (c *paramContext) Param(name string) string { return c.params[name] }
func (c *paramContext) Query(name string) string { return c.request.URL.Query().Get(name) }
func (c *paramContext) Set(key, value any)       { c.values[key] = value }
func (c *paramContext) Get(key any) any          { return c.values[key] }
func (c *paramContext) Store() map[string]any    { return c.store }
func (c *paramContext) Jar() *cookie.Jar         { return c.jar }

type userID int64

type slug string

func TestParam(t *testing.T) {
	t.Parallel()

	c := newParamContext(map[string]string{
		"id":    "42",
		"neg":   "-7",
		"big":   "9999999999",
		"price": "3.14",
		"flag":  "TRUE",
		"name":  "hello world",
		"bad":   "abc",
	}, "")

	assert.Equal(t, 42, internal.Param[int](c, "id"))
	assert.Equal(t, -7, internal.Param[int](c, "neg"))
	assert.Equal(t, int64(9999999999), internal.Param[int64](c, "big"))
	assert.InDelta(t, 3.14, internal.Param[float64](c, "price"), 0.001)
	assert.True(t, internal.Param[bool](c, "flag"))
	assert.Equal(t, "hello world", internal.Param[string](c, "name"))

	t.Run("named types", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, userID(42), internal.Param[userID](c, "id"))
		assert.Equal(t, slug("hello world"), internal.Param[slug](c, "name"))
	})

	t.Run("invalid and missing yield zero", func(t *testing.T) {
		t.Parallel()

		assert.Zero(t, internal.Param[int](c, "bad"))
		assert.Zero(t, internal.Param[int](c, "price"))
		assert.False(t, internal.Param[bool](c, "bad"))
		assert.Empty(t, internal.Param[string](c, "missing"))
		assert.Zero(t, internal.Param[float64](c, "missing"))
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"positive", "page=5", 5},
		{"zero", "page=0", 0},
		{"negative", "page=-1", -1},
		{"missing returns zero", "", 0},
		{"invalid returns zero", "page=abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newParamContext(nil, tt.query)
			require.Equal(t, tt.want, internal.Query[int](c, "page"))
		})
	}

	t.Run("other kinds", func(t *testing.T) {
		t.Parallel()

		c := newParamContext(nil, "id=9876543210&price=19.99&verbose=1&q=go")
		assert.Equal(t, int64(9876543210), internal.Query[int64](c, "id"))
		assert.InDelta(t, 19.99, internal.Query[float64](c, "price"), 0.001)
		assert.True(t, internal.Query[bool](c, "verbose"))
		assert.Equal(t, "go", internal.Query[string](c, "q"))
	})
}

func TestQueryDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing", "", 1},
		{"empty value", "page=", 1},
		{"unparsable", "page=abc", 1},
		{"present", "page=5", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newParamContext(nil, tt.query)
			require.Equal(t, tt.want, internal.QueryDefault(c, "page", 1))
		})
	}

	t.Run("keeps explicit false", func(t *testing.T) {
		t.Parallel()

		c := newParamContext(nil, "flag=false")
		require.False(t, internal.QueryDefault(c, "flag", true))
	})
}

func TestCookieValue(t *testing.T) {
	t.Parallel()

	c := newParamContext(nil, "")
	jar, err := cookie.Parse(cookie.Instructions{}, "count=3; ratio=0.5; beta=true; name=ada; prefs=%7B%22a%22%3A1%7D")
	require.NoError(t, err)
	c.jar = jar

	n, ok := internal.CookieValue[int](c, "count")
	require.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = internal.CookieValue[int](c, "ratio")
	assert.False(t, ok, "fractional number into int")

	f, ok := internal.CookieValue[float64](c, "ratio")
	require.True(t, ok)
	assert.InDelta(t, 0.5, f, 0.001)

	s, ok := internal.CookieValue[string](c, "count")
	require.True(t, ok)
	assert.Equal(t, "3", s)

	b, ok := internal.CookieValue[bool](c, "beta")
	require.True(t, ok)
	assert.True(t, b)

	name, ok := internal.CookieValue[slug](c, "name")
	require.True(t, ok)
	assert.Equal(t, slug("ada"), name)

	_, ok = internal.CookieValue[string](c, "prefs")
	assert.False(t, ok, "objects are not scalars")

	_, ok = internal.CookieValue[string](c, "missing")
	assert.False(t, ok)
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	type user struct {
		Name string
		Age  int
	}

	c := newParamContext(nil, "")
	require.Equal(t, user{}, internal.ContextValue[user](c, key{}))

	c.Set(key{}, user{Name: "Alice", Age: 30})
	require.Equal(t, user{Name: "Alice", Age: 30}, internal.ContextValue[user](c, key{}))
	require.Empty(t, internal.ContextValue[string](c, key{}))
}

func TestStoreValue(t *testing.T) {
	t.Parallel()

	c := newParamContext(nil, "")
	c.store["tenant"] = "acme"
	c.store["limits"] = map[string]any{"rps": 10}

	assert.Equal(t, "acme", internal.StoreValue[string](c, "tenant"))
	assert.Equal(t, map[string]any{"rps": 10}, internal.StoreValue[map[string]any](c, "limits"))
	assert.Zero(t, internal.StoreValue[int](c, "tenant"))
	assert.Empty(t, internal.StoreValue[string](c, "missing"))
}
