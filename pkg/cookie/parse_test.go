package cookie_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/weave/pkg/cookie"
)

func TestSign(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		for _, v := range []string{"", "hello", "a.b.c", "ünïcode", "{\"x\":1}"} {
			signed, err := cookie.Sign(v, "secret")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(signed, v+"."))
			assert.NotContains(t, signed[len(v)+1:], "=")

			got, err := cookie.Unsign(signed, "secret")
			require.NoError(t, err)
			assert.Equal(t, v, got)
		}
	})

	t.Run("known digest", func(t *testing.T) {
		t.Parallel()
		// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
		signed, err := cookie.Sign("The quick brown fox jumps over the lazy dog", "key")
		require.NoError(t, err)
		assert.Equal(t, "The quick brown fox jumps over the lazy dog.97yD9DBThCSxMpjmqm-xQ-9NWaFJRhdZl0edvC0aPNg", signed)
	})

	t.Run("tampered value", func(t *testing.T) {
		t.Parallel()
		signed, err := cookie.Sign("hello", "secret")
		require.NoError(t, err)

		_, err = cookie.Unsign("jello"+signed[5:], "secret")
		require.ErrorIs(t, err, cookie.ErrInvalidSignature)

		_, err = cookie.Unsign(signed+"x", "secret")
		require.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		signed, err := cookie.Sign("hello", "secret")
		require.NoError(t, err)
		_, err = cookie.Unsign(signed, "other")
		require.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("no separator", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.Unsign("nosignature", "secret")
		require.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.Sign("v", "")
		require.ErrorIs(t, err, cookie.ErrNoSecret)
		_, err = cookie.Unsign("v.x", "")
		require.ErrorIs(t, err, cookie.ErrNoSecret)
	})
}

func TestIsNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"0", true},
		{"42", true},
		{"-3.5", true},
		{" 7 ", true},
		{"1e3", true},
		{".5", true},
		{"5.", true},
		{"0x1F", true},
		{"0b101", true},
		{"Infinity", true},
		{"-0x1F", false},
		{"", false},
		{"   ", false},
		{"abc", false},
		{"12px", false},
		{"NaN", false},
		{"inf", false},
		{"1_000", false},
		{"123456789012345", true},
		{"1234567890123456", true},
		{"9999999999999999", false},
		{"0000000000000001", false},
		{"12345678901234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cookie.IsNumeric(tt.in))
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("empty header", func(t *testing.T) {
		t.Parallel()
		defaults := cookie.Attributes{Path: "/"}
		jar, err := cookie.Parse(cookie.Instructions{}, "", cookie.WithDefaults(defaults))
		require.NoError(t, err)
		assert.Zero(t, jar.Len())
		assert.Equal(t, defaults, jar.Defaults())
		assert.Equal(t, defaults, jar.Get("x").Attributes())
	})

	t.Run("coerces values", func(t *testing.T) {
		t.Parallel()
		header := `s=hello; n=42; f=1.5; t=true; b=false; o=%7B%22k%22%3A%5B1%2C2%5D%7D; a=[1,2]; bad={oops; long=12345678901234567; q="quoted"`
		jar, err := cookie.Parse(cookie.Instructions{}, header)
		require.NoError(t, err)

		assert.Equal(t, "hello", jar.Get("s").Value())
		assert.Equal(t, float64(42), jar.Get("n").Value())
		assert.Equal(t, 1.5, jar.Get("f").Value())
		assert.Equal(t, true, jar.Get("t").Value())
		assert.Equal(t, false, jar.Get("b").Value())
		assert.Equal(t, map[string]any{"k": []any{float64(1), float64(2)}}, jar.Get("o").Value())
		assert.Equal(t, []any{float64(1), float64(2)}, jar.Get("a").Value())
		assert.Equal(t, "{oops", jar.Get("bad").Value())
		assert.Equal(t, "12345678901234567", jar.Get("long").Value())
		assert.Equal(t, "quoted", jar.Get("q").Value())
	})

	t.Run("first occurrence wins and malformed pairs are skipped", func(t *testing.T) {
		t.Parallel()
		jar, err := cookie.Parse(cookie.Instructions{}, "a=1; junk; a=2; =x; b=%zz")
		require.NoError(t, err)
		assert.Equal(t, float64(1), jar.Get("a").Value())
		assert.Equal(t, "%zz", jar.Get("b").Value())
		assert.Equal(t, []string{"a", "b"}, jar.Names())
	})

	t.Run("parsing does not stage writes", func(t *testing.T) {
		t.Parallel()
		out := cookie.Instructions{}
		_, err := cookie.Parse(out, "a=1; b=2")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("entries get defaults", func(t *testing.T) {
		t.Parallel()
		defaults := cookie.Attributes{Path: "/", HTTPOnly: true}
		jar, err := cookie.Parse(cookie.Instructions{}, "a=1", cookie.WithDefaults(defaults))
		require.NoError(t, err)
		assert.Equal(t, defaults, jar.Get("a").Attributes())
	})
}

func TestParseSigned(t *testing.T) {
	t.Parallel()

	sign := func(t *testing.T, v, secret string) string {
		t.Helper()
		s, err := cookie.Sign(v, secret)
		require.NoError(t, err)
		return s
	}

	t.Run("verifies and coerces", func(t *testing.T) {
		t.Parallel()
		header := "sid=" + sign(t, "123", "s1") + "; theme=dark"
		jar, err := cookie.Parse(cookie.Instructions{}, header, cookie.WithSecrets("s1"), cookie.WithSigned("sid"))
		require.NoError(t, err)
		assert.Equal(t, float64(123), jar.Get("sid").Value())
		assert.Equal(t, "dark", jar.Get("theme").Value())
	})

	t.Run("rotated secret", func(t *testing.T) {
		t.Parallel()
		header := "sid=" + sign(t, "abc", "old")
		jar, err := cookie.Parse(cookie.Instructions{}, header, cookie.WithSecrets("new", "old"), cookie.WithSigned("sid"))
		require.NoError(t, err)
		assert.Equal(t, "abc", jar.Get("sid").Value())
	})

	t.Run("invalid signature names the cookie", func(t *testing.T) {
		t.Parallel()
		header := "sid=" + sign(t, "abc", "attacker")
		_, err := cookie.Parse(cookie.Instructions{}, header, cookie.WithSecrets("s1", "s2"), cookie.WithSigned("sid"))
		require.ErrorIs(t, err, cookie.ErrInvalidSignature)

		var sigErr *cookie.InvalidSignatureError
		require.True(t, errors.As(err, &sigErr))
		assert.Equal(t, "sid", sigErr.Name)
		assert.Equal(t, `"sid" has invalid cookie signature`, sigErr.Error())
		assert.Equal(t, 400, sigErr.StatusCode())
		assert.Equal(t, "INVALID_COOKIE_SIGNATURE", sigErr.Code())
	})

	t.Run("sign all", func(t *testing.T) {
		t.Parallel()
		header := "a=" + sign(t, "x", "k") + "; b=unsigned"
		_, err := cookie.Parse(cookie.Instructions{}, header, cookie.WithSecrets("k"), cookie.WithSignAll())
		var sigErr *cookie.InvalidSignatureError
		require.ErrorAs(t, err, &sigErr)
		assert.Equal(t, "b", sigErr.Name)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Parallel()
		_, err := cookie.Parse(cookie.Instructions{}, "sid=abc.def", cookie.WithSigned("sid"))
		require.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("unsigned names are not verified", func(t *testing.T) {
		t.Parallel()
		jar, err := cookie.Parse(cookie.Instructions{}, "other=abc.def", cookie.WithSecrets("k"), cookie.WithSigned("sid"))
		require.NoError(t, err)
		assert.Equal(t, "abc.def", jar.Get("other").Value())
	})
}

func BenchmarkParse(b *testing.B) {
	signed, _ := cookie.Sign("user-42", "secret")
	header := "sid=" + signed + "; theme=dark; n=12; prefs=%7B%22a%22%3A1%7D"
	opts := []cookie.JarOption{cookie.WithSecrets("secret"), cookie.WithSigned("sid")}
	for b.Loop() {
		_, _ = cookie.Parse(cookie.Instructions{}, header, opts...)
	}
}
