package validator

// Violation is one failed constraint.
type Violation struct {
	// Value is the offending part of the validated value.
	Value any `json:"value,omitempty"`

	// Custom is the custom error declared by the failing schema: either a
	// static payload or a CustomErrorFunc.
	Custom any `json:"-"`

	// Path is a JSON pointer into the validated value; "" is the root.
	Path string `json:"path"`

	// Keyword names the failed constraint, e.g. "required" or "minLength".
	Keyword string `json:"keyword,omitempty"`

	Message string `json:"message"`
}

// CustomErrorFunc builds a custom error from the validation kind, the schema
// and the whole validated value.
type CustomErrorFunc func(kind string, schema Schema, value any) any

// Schema checks values. Implementations report every violation they find
// and can synthesize an example value that satisfies them.
type Schema interface {
	Violations(value any) []Violation
	Example() any
}

// SchemaFunc adapts a check function into a Schema.
type SchemaFunc struct {
	Check  func(value any) []Violation
	Sample any
}

func (f SchemaFunc) Violations(value any) []Violation {
	if f.Check == nil {
		return nil
	}
	return f.Check(value)
}

func (f SchemaFunc) Example() any {
	return f.Sample
}
