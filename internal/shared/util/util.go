package util

import (
	"path"
	"sort"
	"strings"
)

// NormalizePatternPath rewrites a path into the slash-separated, relative
// form the glob matchers expect.
func NormalizePatternPath(s string) string {
	trimmed := strings.TrimSpace(strings.ReplaceAll(s, "\\", "/"))
	clean := path.Clean(trimmed)
	if clean == "." {
		return ""
	}
	return strings.TrimPrefix(clean, "./")
}

// HasPathPrefix reports whether p equals prefix or lives under it.
func HasPathPrefix(p, prefix string) bool {
	p = NormalizePatternPath(p)
	prefix = NormalizePatternPath(prefix)
	if p == "" || prefix == "" {
		return p == prefix
	}
	if p == prefix {
		return true
	}
	return strings.HasPrefix(p, prefix+"/")
}

// SortedStringKeys returns the map's keys in sorted order.
func SortedStringKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
