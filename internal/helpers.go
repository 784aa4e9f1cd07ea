package internal

import (
	"math"
	"reflect"
	"strconv"
)

// Scalar lists the kinds the typed accessors convert to. Named types such
// as `type UserID int64` are accepted.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the request value stored under key, or the zero
// value when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// StoreValue returns the request store entry under key, or the zero value.
func StoreValue[T any](c Context, key string) T {
	if v, ok := c.Store()[key].(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param returns the route parameter converted to T, or the zero value.
func Param[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Param(name))
	return v
}

// Query returns the query parameter converted to T, or the zero value.
func Query[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Query(name))
	return v
}

// QueryDefault returns the query parameter converted to T. Missing, empty
// and unparsable values yield defaultValue.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	if v, ok := parseScalar[T](raw); ok {
		return v
	}
	return defaultValue
}

// CookieValue returns the decoded cookie value converted to T. Cookie
// numbers decode as float64, so integer targets accept only whole numbers.
func CookieValue[T Scalar](c Context, name string) (T, bool) {
	var zero T
	entry, ok := c.Jar().Lookup(name)
	if !ok {
		return zero, false
	}

	switch v := entry.Value().(type) {
	case string:
		return parseScalar[T](v)
	case float64:
		return fromFloat[T](v)
	case bool:
		return fromBool[T](v)
	}
	return zero, false
}

func parseScalar[T Scalar](raw string) (T, bool) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	switch rv.Kind() {
	case reflect.String:
		rv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, rv.Type().Bits())
		if err != nil {
			return out, false
		}
		rv.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		rv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		rv.SetBool(b)
	default:
		return out, false
	}
	return out, true
}

func fromFloat[T Scalar](f float64) (T, bool) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	switch rv.Kind() {
	case reflect.Float64:
		rv.SetFloat(f)
	case reflect.Int, reflect.Int64:
		if f != math.Trunc(f) || rv.OverflowInt(int64(f)) {
			return out, false
		}
		rv.SetInt(int64(f))
	case reflect.String:
		rv.SetString(strconv.FormatFloat(f, 'f', -1, 64))
	default:
		return out, false
	}
	return out, true
}

func fromBool[T Scalar](b bool) (T, bool) {
	var out T
	rv := reflect.ValueOf(&out).Elem()

	switch rv.Kind() {
	case reflect.Bool:
		rv.SetBool(b)
	case reflect.String:
		rv.SetString(strconv.FormatBool(b))
	default:
		return out, false
	}
	return out, true
}
