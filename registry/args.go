package registry

import (
	"encoding/json"
	"math"
)

// StringArg returns args[key] when it is a string, otherwise "".
func StringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// StringSliceArg returns args[key] as a string slice. Non-string items are
// dropped; a missing or non-list value yields nil.
func StringSliceArg(args map[string]any, key string) []string {
	switch t := args[key].(type) {
	case []string:
		out := make([]string, len(t))
		copy(out, t)
		return out
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// IntArg returns args[key] as an int, or def when missing or not a whole
// number.
func IntArg(args map[string]any, key string, def int) int {
	switch t := args[key].(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		if t == math.Trunc(t) {
			return int(t)
		}
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}
