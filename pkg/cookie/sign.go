package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Sign appends an HMAC-SHA256 signature of value to value:
//
//	value + "." + base64url(HMAC-SHA256(secret, value))
//
// Padding is stripped from the digest. Returns ErrNoSecret for an empty
// secret.
func Sign(value, secret string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	return value + "." + digest(value, secret), nil
}

// Unsign verifies a value produced by Sign and returns the original value.
// Everything before the last "." is treated as the value. A mismatch, or an
// input without a separator, yields ErrInvalidSignature.
func Unsign(input, secret string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	i := strings.LastIndexByte(input, '.')
	if i < 0 {
		return "", ErrInvalidSignature
	}

	value := input[:i]
	if !hmac.Equal([]byte(input[i+1:]), []byte(digest(value, secret))) {
		return "", ErrInvalidSignature
	}
	return value, nil
}

// unsignAny tries secrets in order; the first that verifies wins.
func unsignAny(input string, secrets []string) (string, error) {
	for _, secret := range secrets {
		if v, err := Unsign(input, secret); err == nil {
			return v, nil
		}
	}
	return "", ErrInvalidSignature
}

func digest(value, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
