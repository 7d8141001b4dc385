package driver

import (
	"sort"
	"strings"
)

// sanitizeSegment lower-cases name and maps anything outside [a-z0-9_] to '_'
// so package and target names are safe as map keys and directory names.
func sanitizeSegment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// SanitizeName normalises a package or target name the way manifests do.
func SanitizeName(name string) string {
	return sanitizeSegment(name)
}
