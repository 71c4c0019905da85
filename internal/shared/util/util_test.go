package util

import (
	"testing"
)

func TestNormalizePatternPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Empty", input: "", expected: ""},
		{name: "Dot", input: ".", expected: ""},
		{name: "Trim", input: "  ./src/lib.rs  ", expected: "src/lib.rs"},
		{name: "Relative", input: "src/../tests", expected: "tests"},
		{name: "Backslashes", input: `src\main.rs`, expected: "src/main.rs"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizePatternPath(tc.input); got != tc.expected {
				t.Fatalf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestHasPathPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		path     string
		prefix   string
		expected bool
	}{
		{name: "Exact", path: "crates/app", prefix: "crates/app", expected: true},
		{name: "Nested", path: "crates/app/src/lib.rs", prefix: "crates/app", expected: true},
		{name: "Neighbor", path: "crates/apple", prefix: "crates/app", expected: false},
		{name: "Shorter", path: "crates", prefix: "crates/app", expected: false},
		{name: "MixedSeparators", path: `crates\app\src`, prefix: "crates/app", expected: true},
		{name: "RelativePrefix", path: "./crates/app/src", prefix: "crates/app", expected: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := HasPathPrefix(tc.path, tc.prefix); got != tc.expected {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestSortedStringKeys(t *testing.T) {
	t.Parallel()

	m := map[string]int{"util": 2, "app": 1, "proto": 3}
	keys := SortedStringKeys(m)
	expected := []string{"app", "proto", "util"}
	if len(keys) != len(expected) {
		t.Fatalf("expected %d keys, got %d", len(expected), len(keys))
	}
	for i, key := range expected {
		if keys[i] != key {
			t.Fatalf("expected %q at %d, got %q", key, i, keys[i])
		}
	}
}
