package botdoc

import "fmt"

// Helpers for reading the untyped JSON tree. Every accessor tolerates a
// missing or mistyped value and reports it through its zero result.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// mapField returns m[key] as a map, or nil.
func mapField(m map[string]any, key string) map[string]any {
	sub, _ := m[key].(map[string]any)
	return sub
}

// stringField returns m[key] when it is a string.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// nameKey identifies a name value by its JSON type and content, so that the
// number 1 and the string "1" stay distinct. Strings map to themselves.
func nameKey(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "\x00null"
	default:
		return fmt.Sprintf("\x00%T:%v", t, t)
	}
}

// nameOf stringifies a name value. Non-string scalars keep their printed
// form so that numeric names still compare equal to each other.
func nameOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// truthy mirrors JSON truthiness: null, false, 0, "" and empty containers
// are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
