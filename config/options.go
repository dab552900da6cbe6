package config

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Options is one widget's configuration slice. Accessors never fail: a
// missing, null or mistyped value yields the supplied default. Numbers may
// arrive as float64 (JSON), int (YAML) or numeric strings.
type Options map[string]any

// Has reports whether key is present and non-null.
func (o Options) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// String returns key as text.
func (o Options) String(key, def string) string {
	switch v := o[key].(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return def
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return def
	}
}

// Int returns key as an integer. Fractional numbers are rejected.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok || v == nil {
		return def
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
		return def
	}
	return int(f)
}

// Float returns key as a float.
func (o Options) Float(key string, def float64) float64 {
	v, ok := o[key]
	if !ok || v == nil {
		return def
	}
	if f, ok := toFloat(v); ok {
		return f
	}
	return def
}

// Bool returns key as a boolean. The strings "true"/"false" are accepted.
func (o Options) Bool(key string, def bool) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true
		case "false", "no", "off", "0":
			return false
		}
		return def
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return def
	}
}

// Strings returns key as a list of strings, skipping non-string items.
func (o Options) Strings(key string) []string {
	switch v := o[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Map returns a nested object under key, or empty Options.
func (o Options) Map(key string) Options {
	if m, ok := asMap(o[key]); ok {
		return Options(m)
	}
	return Options{}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
