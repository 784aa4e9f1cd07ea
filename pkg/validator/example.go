package validator

import (
	"encoding/json"
	"strings"
)

const maxExampleDepth = 16

func example(node any, depth int) any {
	m, ok := node.(map[string]any)
	if !ok || depth > maxExampleDepth {
		return nil
	}

	if v, ok := m["default"]; ok {
		return v
	}
	if v, ok := m["const"]; ok {
		return v
	}
	for _, key := range []string{"enum", "examples"} {
		if list, ok := m[key].([]any); ok && len(list) > 0 {
			return list[0]
		}
	}
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		if list, ok := m[key].([]any); ok && len(list) > 0 {
			return example(list[0], depth+1)
		}
	}

	switch schemaType(m) {
	case "object":
		out := map[string]any{}
		props, _ := m["properties"].(map[string]any)
		required, _ := m["required"].([]any)
		for _, r := range required {
			name, ok := r.(string)
			if !ok {
				continue
			}
			out[name] = example(props[name], depth+1)
		}
		return out
	case "array":
		n := intKeyword(m, "minItems")
		out := make([]any, n)
		for i := range out {
			out[i] = example(m["items"], depth+1)
		}
		return out
	case "string":
		return strings.Repeat(".", intKeyword(m, "minLength"))
	case "number", "integer":
		if v, ok := m["minimum"]; ok {
			return v
		}
		return 0
	case "boolean":
		return false
	}
	return nil
}

func schemaType(m map[string]any) string {
	switch t := m["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	if _, ok := m["properties"]; ok {
		return "object"
	}
	return ""
}

func intKeyword(m map[string]any, key string) int {
	switch n := m[key].(type) {
	case json.Number:
		i, err := n.Int64()
		if err == nil && i > 0 {
			return int(i)
		}
	case float64:
		if n > 0 {
			return int(n)
		}
	}
	return 0
}
