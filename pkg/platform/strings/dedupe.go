// Package strings provides string list hygiene shared by configuration and
// sanitization code.
package strings

import (
	"strings"
)

// DedupeAndTrimLower trims and lowercases each element, drops empty ones and
// removes duplicates. First-occurrence order is preserved.
//
// Example:
//
//	DedupeAndTrimLower([]string{"  No Aplica ", "n/a", "NO APLICA", ""})
//	// Returns: []string{"no aplica", "n/a"}
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		normalized := strings.ToLower(strings.TrimSpace(v))
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	return result
}
