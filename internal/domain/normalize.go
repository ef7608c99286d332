package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for user name normalization.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeEmail trims surrounding whitespace. Case is preserved as stored;
// comparisons for uniqueness and login are case-insensitive.
func NormalizeEmail(s string) string {
	return strings.TrimSpace(s)
}
