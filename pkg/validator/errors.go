package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrValidation matches every *Error through errors.Is.
var ErrValidation = errors.New("validator: validation failed")

// Error is a failed validation of one request part ("body", "query",
// "params", "headers", "cookie" or a custom kind).
//
// Its message is JSON. Outside production it carries the failing path,
// an example of an accepted value, the received value and every violation.
// In production it only carries the kind and a message that never echoes
// the received value. A custom error declared by the failing schema
// replaces the message in both modes.
type Error struct {
	Schema     Schema
	Value      any
	Kind       string
	message    string
	violations []Violation
	production bool
}

// Option configures an Error.
type Option func(*Error)

// WithProduction switches to the redacted production format.
func WithProduction(production bool) Option {
	return func(e *Error) {
		e.production = production
	}
}

// New checks value against schema and builds the error. The error is
// returned even when there are no violations; use Validate for the
// nil-on-success form.
func New(kind string, schema Schema, value any, opts ...Option) *Error {
	e := &Error{Kind: kind, Schema: schema, Value: value}
	for _, opt := range opts {
		opt(e)
	}
	if schema != nil {
		e.violations = schema.Violations(value)
	}
	e.message = e.render()
	return e
}

// Validate returns a *Error when value violates schema, nil otherwise.
func Validate(kind string, schema Schema, value any, opts ...Option) error {
	e := New(kind, schema, value, opts...)
	if len(e.violations) == 0 {
		return nil
	}
	return e
}

// IsProduction reports whether env names the production environment.
func IsProduction(env string) bool {
	return strings.EqualFold(strings.TrimSpace(env), "production")
}

func (e *Error) Error() string {
	return e.message
}

// Is makes errors.Is(err, ErrValidation) hold.
func (e *Error) Is(target error) bool {
	return target == ErrValidation
}

func (e *Error) StatusCode() int {
	return http.StatusBadRequest
}

// Code returns the machine-readable error code.
func (e *Error) Code() string {
	return "VALIDATION"
}

// All returns every violation.
func (e *Error) All() []Violation {
	return e.violations
}

// First returns the first violation.
func (e *Error) First() (Violation, bool) {
	if len(e.violations) == 0 {
		return Violation{}, false
	}
	return e.violations[0], true
}

// Model returns an example value accepted by the schema.
func (e *Error) Model() any {
	if e.Schema == nil {
		return nil
	}
	return e.Schema.Example()
}

// Production reports whether the error uses the production format.
func (e *Error) Production() bool {
	return e.production
}

type productionMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Field order is the rendered key order.
type detailedMessage struct {
	Type     string      `json:"type"`
	At       string      `json:"at"`
	Message  string      `json:"message"`
	Expected any         `json:"expected"`
	Found    any         `json:"found"`
	Errors   []Violation `json:"errors"`
}

func (e *Error) render() string {
	first, ok := e.First()

	if ok && first.Custom != nil {
		return customMessage(first.Custom, e.Kind, e.Schema, e.Value)
	}

	at := "root"
	if p := strings.TrimPrefix(first.Path, "/"); p != "" {
		at = p
	}

	if e.production {
		msg := "validation failed"
		if ok && first.Keyword != "" {
			msg = fmt.Sprintf("%s: %s constraint failed", at, first.Keyword)
		}
		return marshal(productionMessage{Type: e.Kind, Message: msg}, false)
	}

	errs := e.violations
	if errs == nil {
		errs = []Violation{}
	}
	return marshal(detailedMessage{
		Type:     e.Kind,
		At:       at,
		Message:  first.Message,
		Expected: e.Model(),
		Found:    e.Value,
		Errors:   errs,
	}, true)
}

func customMessage(custom any, kind string, schema Schema, value any) string {
	if fn, ok := custom.(CustomErrorFunc); ok {
		custom = fn(kind, schema, value)
	} else if fn, ok := custom.(func(string, Schema, any) any); ok {
		custom = fn(kind, schema, value)
	}
	if s, ok := custom.(string); ok {
		return s
	}
	return marshal(custom, false)
}

func marshal(v any, indent bool) string {
	var (
		b   []byte
		err error
	)
	if indent {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
