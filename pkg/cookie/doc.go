// Package cookie implements a per-request cookie jar with signed cookies
// and write-through change tracking.
//
// Parse reads a Cookie request header into a Jar. Every entry is a *Cookie
// bound to a Setter, the outbound sink that later becomes Set-Cookie
// headers. Changing a cookie pushes its full state into the Setter before
// the call returns, so the staged response always reflects the jar.
//
// # Parsing
//
// Values are decoded in this order:
//
//   - signed cookies are verified and stripped of their signature
//   - values starting with "{" or "[" are decoded as JSON when valid
//   - numeric strings become float64 (see IsNumeric)
//   - "true" and "false" become bool
//   - anything else stays a string
//
// Example:
//
//	out := cookie.Instructions{}
//	jar, err := cookie.Parse(out, r.Header.Get("Cookie"),
//		cookie.WithSecrets(newSecret, oldSecret),
//		cookie.WithSigned("session"),
//		cookie.WithDefaults(cookie.Attributes{Path: "/", HTTPOnly: true}),
//	)
//	if err != nil {
//		return err // *cookie.InvalidSignatureError, 400
//	}
//
//	jar.Get("theme").SetValue("dark")
//	jar.Get("cart").Add(cookie.WithValue(map[string]any{"items": 3}), cookie.WithMaxAge(3600))
//	jar.Get("legacy").Remove(cookie.WithPath("/"))
//
//	err = out.Write(w.Header(), cookie.WithSecrets(newSecret, oldSecret), cookie.WithSigned("session"))
//
// # Handles
//
// Jar.Get never returns nil. For a name the request did not carry it
// returns a new handle with no value; the handle is inserted into the jar
// only when it first writes. Writes that leave value and attributes
// unchanged are ignored.
//
// # Signing
//
// Sign and Unsign implement the signed value format
//
//	value + "." + base64url(HMAC-SHA256(secret, value))
//
// Several secrets can be configured for rotation. Verification tries them
// in order, signing always uses the first.
package cookie
