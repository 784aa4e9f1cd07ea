package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidSchema is returned when a JSON Schema document cannot be compiled.
var ErrInvalidSchema = errors.New("validator: invalid schema")

const schemaBaseURL = "https://weave.local/schemas/"

// JSONSchema is a Schema backed by a compiled JSON Schema document.
//
// A schema object may carry an "error" keyword. When a constraint declared
// by that object fails, its value becomes the custom error of the violation.
type JSONSchema struct {
	schema  *jsonschema.Schema
	doc     any
	printer *message.Printer
	custom  map[string]any
	name    string
}

// JSONSchemaOption configures a JSONSchema.
type JSONSchemaOption func(*JSONSchema)

// WithLanguage sets the language of violation messages. English by default.
func WithLanguage(tag language.Tag) JSONSchemaOption {
	return func(s *JSONSchema) {
		s.printer = message.NewPrinter(tag)
	}
}

// WithCustomError attaches a custom error to the schema object at the JSON
// pointer ptr ("" is the root). It takes precedence over an "error" keyword.
func WithCustomError(ptr string, fn CustomErrorFunc) JSONSchemaOption {
	return func(s *JSONSchema) {
		s.custom[ptr] = fn
	}
}

// CompileJSONSchema compiles raw as a JSON Schema document named name.
func CompileJSONSchema(name string, raw []byte, opts ...JSONSchemaOption) (*JSONSchema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, name, err)
	}

	loc := schemaBaseURL + strings.TrimPrefix(name, "/")
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, name, err)
	}
	sch, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSchema, name, err)
	}

	s := &JSONSchema{
		schema:  sch,
		doc:     doc,
		name:    name,
		printer: message.NewPrinter(language.English),
		custom:  make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustCompileJSONSchema is like CompileJSONSchema but panics on error.
func MustCompileJSONSchema(name string, raw []byte, opts ...JSONSchemaOption) *JSONSchema {
	s, err := CompileJSONSchema(name, raw, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled with.
func (s *JSONSchema) Name() string {
	return s.name
}

// Violations validates value. Go values are first normalized through their
// JSON encoding, so structs and typed maps validate like their JSON form.
func (s *JSONSchema) Violations(value any) []Violation {
	inst, err := normalize(value)
	if err != nil {
		return []Violation{{Keyword: "type", Message: err.Error()}}
	}

	err = s.schema.Validate(inst)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []Violation{{Message: err.Error()}}
	}

	var out []Violation
	s.collect(verr, inst, &out)
	return out
}

// Example synthesizes a value accepted by the schema from its defaults,
// consts, enums, examples and required properties.
func (s *JSONSchema) Example() any {
	return example(s.doc, 0)
}

func (s *JSONSchema) collect(verr *jsonschema.ValidationError, inst any, out *[]Violation) {
	if len(verr.Causes) > 0 {
		for _, cause := range verr.Causes {
			s.collect(cause, inst, out)
		}
		return
	}

	loc := verr.InstanceLocation
	v := Violation{
		Value:   lookup(inst, loc),
		Message: verr.ErrorKind.LocalizedString(s.printer),
		Custom:  s.customError(verr.SchemaURL),
	}
	if kp := verr.ErrorKind.KeywordPath(); len(kp) > 0 {
		v.Keyword = kp[len(kp)-1]
	}
	if req, ok := verr.ErrorKind.(*kind.Required); ok && len(req.Missing) == 1 {
		loc = append(loc[:len(loc):len(loc)], req.Missing[0])
		v.Value = nil
	}
	v.Path = pointer(loc)

	*out = append(*out, v)
}

func (s *JSONSchema) customError(schemaURL string) any {
	_, frag, _ := strings.Cut(schemaURL, "#")
	if fn, ok := s.custom[frag]; ok {
		return fn
	}
	node, ok := resolve(s.doc, frag).(map[string]any)
	if !ok {
		return nil
	}
	return node["error"]
}

func normalize(value any) (any, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(b))
}

func pointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteByte('/')
		tok = strings.ReplaceAll(tok, "~", "~0")
		sb.WriteString(strings.ReplaceAll(tok, "/", "~1"))
	}
	return sb.String()
}

func lookup(v any, tokens []string) any {
	for _, tok := range tokens {
		switch node := v.(type) {
		case map[string]any:
			v = node[tok]
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			v = node[i]
		default:
			return nil
		}
	}
	return v
}

// resolve walks a JSON pointer fragment through a decoded document.
func resolve(doc any, ptr string) any {
	if ptr == "" {
		return doc
	}
	tokens := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	for i, tok := range tokens {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tokens[i] = strings.ReplaceAll(tok, "~0", "~")
	}
	return lookup(doc, tokens)
}
