package vnode

import (
	"fmt"
	"sort"
	"strings"
)

// NormalizeClass flattens any of the accepted "class" prop shapes — a
// string, a []string, or a map[string]bool of class-name to
// enabled/disabled — into a single deterministic space-separated
// string, grounded on the same class-merging convenience
// vango/pkg/vdom/attributes.go's effective-attrs pass provides for
// "class" specifically.
func NormalizeClass(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []string:
		return strings.Join(c, " ")
	case []any:
		parts := make([]string, 0, len(c))
		for _, e := range c {
			if s := NormalizeClass(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	case map[string]bool:
		names := make([]string, 0, len(c))
		for name, on := range c {
			if on {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		return strings.Join(names, " ")
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeStyle flattens either a pre-formatted CSS string or a
// map[string]string of property to value into a single "prop: value;"
// CSS string, with keys sorted for deterministic output across runs.
func NormalizeStyle(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case map[string]string:
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for _, k := range keys {
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(s[k])
			b.WriteString("; ")
		}
		return strings.TrimSpace(b.String())
	default:
		return fmt.Sprint(v)
	}
}
