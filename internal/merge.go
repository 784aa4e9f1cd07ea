package internal

import "slices"

// MergeDeep merges source into target and returns target. Nested
// map[string]any values present on both sides are merged recursively;
// everything else in source overwrites target. Maps and slices taken from
// source are copied, so later changes to source do not reach target.
// Top-level keys listed in skipKeys are left alone. A nil target is
// allocated.
func MergeDeep(target, source map[string]any, skipKeys ...string) map[string]any {
	if target == nil {
		target = make(map[string]any, len(source))
	}
	for key, value := range source {
		if slices.Contains(skipKeys, key) {
			continue
		}

		src, ok := value.(map[string]any)
		if !ok {
			target[key] = cloneValue(value)
			continue
		}
		dst, ok := target[key].(map[string]any)
		if !ok {
			target[key] = cloneMap(src)
			continue
		}
		target[key] = MergeDeep(dst, src)
	}
	return target
}

// cloneMap copies m along with every nested map[string]any and []any.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
