// Package util holds small text helpers shared by the CLI output paths.
package util

import (
	"fmt"
	"strings"
)

// JoinOrNone joins strings with ", " or returns "(none)" for empty slices.
func JoinOrNone(items []string) string {
	return JoinOrDefault(items, "(none)")
}

// JoinOrDefault joins strings with ", " or returns def for empty slices.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// Count formats n with the matching noun: "1 alert", "3 alerts".
func Count(n int, singular, plural string) string {
	return fmt.Sprintf("%d %s", n, Pluralize(n, singular, plural))
}

// FirstLine returns s up to its first newline.
// Structured errors put the message on line one and details below.
func FirstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
