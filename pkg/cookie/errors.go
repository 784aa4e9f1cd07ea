package cookie

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors.
var (
	ErrNoSecret         = errors.New("cookie: secret required")
	ErrInvalidSignature = errors.New("cookie: invalid signature")
)

// InvalidSignatureError reports a signed request cookie that failed
// verification against every configured secret.
type InvalidSignatureError struct {
	Name string
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("%q has invalid cookie signature", e.Name)
}

// Is makes errors.Is(err, ErrInvalidSignature) hold.
func (e *InvalidSignatureError) Is(target error) bool {
	return target == ErrInvalidSignature
}

func (e *InvalidSignatureError) StatusCode() int {
	return http.StatusBadRequest
}

// Code returns the machine-readable error code.
func (e *InvalidSignatureError) Code() string {
	return "INVALID_COOKIE_SIGNATURE"
}
