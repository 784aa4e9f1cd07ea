// Package validator reports schema violations as HTTP 400 errors.
//
// A Schema checks a value and can synthesize an example of an accepted
// value. JSONSchema backs it with a compiled JSON Schema document:
//
//	schema := validator.MustCompileJSONSchema("user.json", []byte(`{
//		"type": "object",
//		"required": ["name"],
//		"properties": {"name": {"type": "string", "minLength": 1}}
//	}`))
//
//	if err := validator.Validate("body", schema, payload); err != nil {
//		return err // *validator.Error, StatusCode() == 400
//	}
//
// The error message is JSON. Outside production it names the failing
// location, the expected model, the received value and every violation:
//
//	{
//	  "type": "body",
//	  "at": "name",
//	  "message": "missing property 'name'",
//	  "expected": {"name": ""},
//	  "found": {},
//	  "errors": [...]
//	}
//
// With WithProduction(true) only the type and a message free of received
// values are kept. A schema object carrying an "error" keyword, or a
// function registered with WithCustomError, replaces the message in both
// modes: strings are used verbatim, anything else is JSON encoded.
package validator
