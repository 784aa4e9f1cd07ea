package pathpattern_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weave/pkg/pathpattern"
)

func TestSplitPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"root", "/", []string{""}},
		{"single", "/hello", []string{"hello"}},
		{"nested", "/hello/world", []string{"hello", "world"}},
		{"trailing slash kept", "/a/", []string{"a", ""}},
		{"no leading slash", "a/b", []string{"a", "b"}},
		{"double slash", "//a", []string{"", "a"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pathpattern.SplitPath(tt.path))
		})
	}
}

func TestSplitRoutingPath(t *testing.T) {
	t.Parallel()

	t.Run("plain template", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"users", ":id"}, pathpattern.SplitRoutingPath("/users/:id"))
	})

	t.Run("group with slash stays in one segment", func(t *testing.T) {
		t.Parallel()
		got := pathpattern.SplitRoutingPath("/a/:b{x/y}/c")
		assert.Equal(t, []string{"a", ":b{x/y}", "c"}, got)
	})

	t.Run("several groups", func(t *testing.T) {
		t.Parallel()
		got := pathpattern.SplitRoutingPath("/:year{[0-9]{4}}/:slug{[a-z]+/[a-z]+}")
		// The first group stops at the first closing brace.
		assert.Equal(t, []string{":year{[0-9]{4}}", ":slug{[a-z]+/[a-z]+}"}, got)
	})

	t.Run("literal text that looks like a marker", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"{x}", "@0"}, pathpattern.SplitRoutingPath("/{x}/@0"))
		assert.Equal(t, []string{"@1", ":id{a/b}", "0"}, pathpattern.SplitRoutingPath("/@1/:id{a/b}/0"))
	})

	t.Run("wildcard and trailing slash", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"static", "*"}, pathpattern.SplitRoutingPath("/static/*"))
		assert.Equal(t, []string{"a", ""}, pathpattern.SplitRoutingPath("/a/"))
	})
}

func TestCacheGet(t *testing.T) {
	t.Parallel()

	t.Run("wildcard is not cached", func(t *testing.T) {
		t.Parallel()
		c := pathpattern.NewCache()
		p, err := c.Get("*")
		require.NoError(t, err)
		assert.Same(t, pathpattern.Wildcard, p)
		assert.True(t, p.IsWildcard())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("plain parameter matches any non-empty segment", func(t *testing.T) {
		t.Parallel()
		c := pathpattern.NewCache()
		p, err := c.Get(":id")
		require.NoError(t, err)
		assert.Equal(t, "id", p.Name)
		assert.Empty(t, p.Expr)
		assert.True(t, p.Match("42"))
		assert.True(t, p.Match("anything"))
		assert.False(t, p.Match(""))
	})

	t.Run("expression is anchored", func(t *testing.T) {
		t.Parallel()
		c := pathpattern.NewCache()
		p, err := c.Get(":id{[0-9]+}")
		require.NoError(t, err)
		assert.Equal(t, "id", p.Name)
		assert.Equal(t, "[0-9]+", p.Expr)
		assert.True(t, p.Match("123"))
		assert.False(t, p.Match("12a"))
		assert.False(t, p.Match("a123"))
	})

	t.Run("literal is not a pattern", func(t *testing.T) {
		t.Parallel()
		c := pathpattern.NewCache()
		for _, label := range []string{"users", "", "a:b", ":"} {
			p, err := c.Get(label)
			require.ErrorIs(t, err, pathpattern.ErrNotPattern, label)
			assert.Nil(t, p)
		}
	})

	t.Run("invalid expression", func(t *testing.T) {
		t.Parallel()
		c := pathpattern.NewCache()
		_, err := c.Get(":id{[0-9}")
		require.ErrorIs(t, err, pathpattern.ErrInvalidRegexp)
	})

	t.Run("identity is preserved", func(t *testing.T) {
		t.Parallel()
		c := pathpattern.NewCache()
		a, err := c.Get(":id{[0-9]+}")
		require.NoError(t, err)
		b, err := c.Get(":id{[0-9]+}")
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("caches are independent", func(t *testing.T) {
		t.Parallel()
		a, err := pathpattern.NewCache().Get(":id")
		require.NoError(t, err)
		b, err := pathpattern.NewCache().Get(":id")
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})

	t.Run("concurrent lookups share one pattern", func(t *testing.T) {
		t.Parallel()
		c := pathpattern.NewCache()

		const workers = 32
		got := make([]*pathpattern.Pattern, workers)
		var wg sync.WaitGroup
		for i := range workers {
			wg.Go(func() {
				p, err := c.Get(":slug{[a-z-]+}")
				assert.NoError(t, err)
				got[i] = p
			})
		}
		wg.Wait()

		for _, p := range got[1:] {
			assert.Same(t, got[0], p)
		}
	})
}

func TestCheckOptionalParameter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"not optional", "/users/:id", nil},
		{"static path", "/users", nil},
		{"trailing optional", "/api/animals/:type?", []string{"/api/animals", "/api/animals/:type"}},
		{"root optional", "/:id?", []string{"/", "/:id"}},
		{"required before optional", "/:a/:b?", []string{"/:a", "/:a/:b"}},
		{"literal between", "/a/:b/c/:d?", []string{"/a/:b/c", "/a/:b/c/:d"}},
		{"with expression", "/p/:id{[0-9]+}?", []string{"/p", "/p/:id{[0-9]+}"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pathpattern.CheckOptionalParameter(tt.path))
		})
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	t.Run("extracts path", func(t *testing.T) {
		t.Parallel()
		p, err := pathpattern.Path("http://example.com/hello/world?x=1")
		require.NoError(t, err)
		assert.Equal(t, "/hello/world", p)
	})

	t.Run("https and port", func(t *testing.T) {
		t.Parallel()
		p, err := pathpattern.Path("https://example.com:8443/a/")
		require.NoError(t, err)
		assert.Equal(t, "/a/", p)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		for _, raw := range []string{"example.com/a", "ftp://example.com/a", "http://example.com", ""} {
			p, err := pathpattern.Path(raw)
			require.ErrorIs(t, err, pathpattern.ErrMalformedURL, raw)
			assert.Empty(t, p)
		}
	})

	t.Run("non strict trims one trailing slash", func(t *testing.T) {
		t.Parallel()
		p, err := pathpattern.PathNoStrict("http://example.com/a/")
		require.NoError(t, err)
		assert.Equal(t, "/a", p)

		p, err = pathpattern.PathNoStrict("http://example.com/")
		require.NoError(t, err)
		assert.Equal(t, "/", p)

		p, err = pathpattern.PathNoStrict("http://example.com/a//")
		require.NoError(t, err)
		assert.Equal(t, "/a/", p)
	})
}

func TestQueryString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "?a=1&b=2", pathpattern.QueryString("http://example.com/p?a=1&b=2"))
	assert.Equal(t, "?", pathpattern.QueryString("http://example.com/p?"))
	assert.Empty(t, pathpattern.QueryString("http://example.com/p"))
	assert.Empty(t, pathpattern.QueryString("http://"))
}

func TestMergePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want  string
		paths []string
	}{
		{"/a/b", []string{"/a/", "/b"}},
		{"/a/", []string{"/a", "/"}},
		{"/", []string{"/", "/"}},
		{"/a/", []string{"/a/", "/"}},
		{"/b", []string{"/", "/b"}},
		{"/a/b/c", []string{"a", "b", "c"}},
		{"/api/v1/users/:id", []string{"/api", "/v1", "/users/:id"}},
		{"/", []string{"/"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.paths), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pathpattern.MergePath(tt.paths...))
		})
	}
}
