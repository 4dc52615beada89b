// Package utils contains general helper functions used across the locus tool.
package utils

import "strings"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizeNames trims every name, drops blank ones and removes duplicates.
func NormalizeNames(names []string) []string {
	trimmedNames := make([]string, 0, len(names))
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == EmptyString {
			continue
		}
		trimmedNames = append(trimmedNames, trimmedName)
	}
	return DeduplicatePatterns(trimmedNames)
}
