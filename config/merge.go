package config

import "strings"

// DeepMerge returns base with override applied on top. Nested objects merge
// key by key; scalars and arrays in override replace the base value; a nil in
// override keeps the base value. Neither input is modified.
func DeepMerge(base, override map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		out[k] = cloneValue(v)
	}
	for k, v := range override {
		if v == nil {
			continue
		}
		src, srcIsMap := asMap(v)
		dst, dstIsMap := asMap(out[k])
		if srcIsMap && dstIsMap {
			out[k] = DeepMerge(dst, src)
			continue
		}
		out[k] = cloneValue(v)
	}
	return out
}

// asMap accepts both JSON-decoded objects and YAML mappings with string keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	if m, ok := asMap(v); ok {
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = cloneValue(val)
		}
		return out
	}
	if s, ok := v.([]any); ok {
		out := make([]any, len(s))
		for i, val := range s {
			out[i] = cloneValue(val)
		}
		return out
	}
	return v
}

// lookup walks a dotted path ("widgets.git_branch.max_length") through nested
// objects.
func lookup(doc map[string]any, path string) (any, bool) {
	if path == "" {
		return doc, true
	}
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
